package gcs

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"billed/internal/core"
	"billed/internal/store"
)

// Uploader pushes receipt files into a Google Cloud Storage bucket.
// Objects land under receipts/<email>/<key><ext> and the returned URL
// points at the public object endpoint.
type Uploader struct {
	client *storage.Client
	bucket string
}

// NewUploader creates a GCS-backed receipt uploader. With no options it
// relies on Application Default Credentials; pass
// option.WithCredentialsFile or option.WithCredentialsJSON otherwise.
func NewUploader(ctx context.Context, bucket string, opts ...option.ClientOption) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs uploader: bucket name is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

// UploadReceipt implements store.ReceiptUploader.
func (u *Uploader) UploadReceipt(ctx context.Context, email string, att core.Attachment) (store.UploadResult, error) {
	key := uuid.NewString()
	object := path.Join("receipts", email, key+filepath.Ext(att.FileName))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = att.ContentType
	if _, err := w.Write(att.Data); err != nil {
		_ = w.Close()
		return store.UploadResult{}, &store.NetworkError{Op: "upload", Message: err.Error(), Err: err}
	}
	if err := w.Close(); err != nil {
		return store.UploadResult{}, &store.NetworkError{Op: "upload", Message: err.Error(), Err: err}
	}

	return store.UploadResult{
		FileURL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, object),
		Key:      key,
		FileName: att.FileName,
	}, nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}
