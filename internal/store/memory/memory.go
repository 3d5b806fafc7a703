package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"billed/internal/core"
	"billed/internal/store"
)

// Store is an in-memory bill store. It backs local development and
// tests; the mutex keeps it safe to share across handlers.
type Store struct {
	mu    sync.Mutex
	bills []core.Bill
}

func New(seed ...core.Bill) *Store {
	s := &Store{}
	for _, b := range seed {
		if b.Key == "" {
			b.Key = uuid.NewString()
		}
		s.bills = append(s.bills, b)
	}
	return s
}

// List returns the bills owned by email, preserving insertion order.
func (s *Store) List(_ context.Context, email string) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

// Create stores the bill under a fresh key.
func (s *Store) Create(_ context.Context, bill core.Bill) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bill.Key == "" {
		bill.Key = uuid.NewString()
	}
	s.bills = append(s.bills, bill)
	return bill, nil
}

// Update replaces the bill stored under key.
func (s *Store) Update(_ context.Context, key string, bill core.Bill) (core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bills {
		if b.Key == key {
			bill.Key = key
			s.bills[i] = bill
			return bill, nil
		}
	}
	return core.Bill{}, fmt.Errorf("update bill %s: %w", key, store.ErrNotFound)
}

// UploadReceipt fakes the blob-storage channel with a synthetic URL.
func (s *Store) UploadReceipt(_ context.Context, email string, att core.Attachment) (store.UploadResult, error) {
	key := uuid.NewString()
	res := store.UploadResult{
		FileURL:  fmt.Sprintf("https://localhost/receipts/%s/%s", email, key),
		Key:      key,
		FileName: att.FileName,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Reserve the key so a later Update lands on an existing record.
	s.bills = append(s.bills, core.Bill{Key: key, Email: email, FileURL: res.FileURL, FileName: att.FileName, Status: core.StatusPending})
	return res, nil
}

// Len reports the number of stored bills, drafts included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bills)
}
