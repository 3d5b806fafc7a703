package store

import (
	"context"

	"billed/internal/core"
)

// Ports for the remote bill store. Real backends and test doubles
// implement these explicitly; nothing is accepted by duck typing.
type (
	// BillLister returns every bill owned by the given employee.
	BillLister interface {
		List(ctx context.Context, email string) ([]core.Bill, error)
	}

	// BillCreator persists a new bill and returns it with its
	// store-assigned key.
	BillCreator interface {
		Create(ctx context.Context, bill core.Bill) (core.Bill, error)
	}

	// BillUpdater replaces the bill stored under key.
	BillUpdater interface {
		Update(ctx context.Context, key string, bill core.Bill) (core.Bill, error)
	}

	// ReceiptUploader pushes a receipt file into blob storage scoped to
	// the employee's email and returns where it landed.
	ReceiptUploader interface {
		UploadReceipt(ctx context.Context, email string, att core.Attachment) (UploadResult, error)
	}

	// Store bundles the full remote store surface.
	Store interface {
		BillLister
		BillCreator
		BillUpdater
		ReceiptUploader
	}
)

// UploadResult is what the upload channel hands back once a receipt
// lands in blob storage.
type UploadResult struct {
	FileURL  string `json:"fileUrl"`
	Key      string `json:"key"`
	FileName string `json:"fileName"`
}
