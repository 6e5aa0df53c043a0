// Package storage wraps the external object store holding uploaded resumes.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// Client is the interface controllers use to persist and delete resume
// objects. A durable public URL is derivable from any stored object name.
type Client interface {
	UploadFile(objectName string, fileData io.Reader) error
	DeleteFile(objectName string) error
	ObjectURL(objectName string) string
}

// CloudStorageClient is a Client backed by Google Cloud Storage.
type CloudStorageClient struct {
	BucketName string
	Ctx        context.Context
	Client     *storage.Client
}

// NewCloudStorageClient creates a GCS-backed Client for the given bucket.
func NewCloudStorageClient(bucketName string) (*CloudStorageClient, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Ctx:        ctx,
		Client:     client,
	}, nil
}

// NewClientFromEnv builds a Client from STORAGE_BUCKET, or returns nil
// when no bucket is configured (resume upload is then unavailable).
func NewClientFromEnv() (Client, error) {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		return nil, nil
	}
	return NewCloudStorageClient(bucket)
}

// UploadFile writes fileData into the bucket under objectName.
func (c *CloudStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	bucket := c.Client.Bucket(c.BucketName)
	obj := bucket.Object(objectName)
	wc := obj.NewWriter(c.Ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %v", err)
	}
	return nil
}

// DeleteFile removes objectName from the bucket.
func (c *CloudStorageClient) DeleteFile(objectName string) error {
	if err := c.Client.Bucket(c.BucketName).Object(objectName).Delete(c.Ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %v", objectName, err)
	}
	return nil
}

// ObjectURL derives the durable public URL for a stored object.
func (c *CloudStorageClient) ObjectURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.BucketName, objectName)
}
