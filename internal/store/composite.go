package store

import (
	"context"

	"billed/internal/core"
)

type compositeStore struct {
	Store
	uploader ReceiptUploader
}

// WithReceiptUploader returns a store whose receipt uploads go through
// uploader while bill reads and writes stay on base. Used to pair a
// local bill backend with blob storage.
func WithReceiptUploader(base Store, uploader ReceiptUploader) Store {
	return &compositeStore{Store: base, uploader: uploader}
}

func (c *compositeStore) UploadReceipt(ctx context.Context, email string, att core.Attachment) (UploadResult, error) {
	return c.uploader.UploadReceipt(ctx, email, att)
}
