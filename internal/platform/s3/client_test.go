package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type fakeObjects struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestGetObject(t *testing.T) {
	fake := &fakeObjects{body: "AWSTemplateFormatVersion: '2010-09-09'"}
	c := &Client{s3: fake}

	data, err := c.GetObject(context.Background(), "templates", "baseline.yaml")
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	if string(data) != fake.body {
		t.Errorf("GetObject() = %q, want %q", data, fake.body)
	}
	if aws.ToString(fake.input.Bucket) != "templates" || aws.ToString(fake.input.Key) != "baseline.yaml" {
		t.Errorf("unexpected input bucket=%q key=%q", aws.ToString(fake.input.Bucket), aws.ToString(fake.input.Key))
	}
}

func TestGetObject_NotFound(t *testing.T) {
	c := &Client{s3: &fakeObjects{err: &types.NoSuchKey{}}}

	_, err := c.GetObject(context.Background(), "templates", "missing.yaml")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("GetObject() error = %v, want ErrObjectNotFound", err)
	}
}

func TestGetObject_OtherError(t *testing.T) {
	c := &Client{s3: &fakeObjects{err: &smithy.GenericAPIError{Code: "AccessDenied"}}}

	_, err := c.GetObject(context.Background(), "templates", "x.yaml")
	if err == nil || errors.Is(err, ErrObjectNotFound) {
		t.Errorf("GetObject() error = %v, want non-not-found error", err)
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("boom"), false},
		{"typed no such key", &types.NoSuchKey{}, true},
		{"typed no such bucket", &types.NoSuchBucket{}, true},
		{"api code 404", &smithy.GenericAPIError{Code: "404"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNotFoundError(tt.err); got != tt.want {
				t.Errorf("isNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}
