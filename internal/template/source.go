// Package template reads deployment templates from local files or S3.
package template

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnreadable is wrapped by every Read failure.
var ErrUnreadable = errors.New("template unreadable")

const s3Scheme = "s3://"

// ObjectGetter fetches objects from a bucket.
// Implemented by internal/platform/s3.Client.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Source reads templates from the local filesystem or, for s3:// locations,
// from an ObjectGetter.
type Source struct {
	objects  ObjectGetter
	readFile func(string) ([]byte, error)
}

// NewSource creates a template source. objects may be nil when only local
// paths are used.
func NewSource(objects ObjectGetter) *Source {
	return &Source{objects: objects, readFile: os.ReadFile}
}

// Read returns the raw template text at location.
func (s *Source) Read(ctx context.Context, location string) (string, error) {
	var (
		data []byte
		err  error
	)

	if IsS3Location(location) {
		data, err = s.readS3(ctx, location)
	} else {
		// #nosec G304
		data, err = s.readFile(location)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnreadable, location, err)
	}

	body := string(data)
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrUnreadable, location)
	}
	return body, nil
}

func (s *Source) readS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	if s.objects == nil {
		return nil, errors.New("no S3 client configured")
	}
	return s.objects.GetObject(ctx, bucket, key)
}

// IsS3Location reports whether location uses the s3:// scheme.
func IsS3Location(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3Location splits s3://bucket/key into its parts.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 location: %q", location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	return bucket, key, nil
}
