// Package s3 provides a minimal S3 client for fetching deployment templates
// stored in a bucket.
package s3
