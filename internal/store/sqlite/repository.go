package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"billed/internal/core"
	"billed/internal/store"
)

// Repository is the local bill store. Bills written here carry a
// sync_status so the worker can push them to the remote API later.
type Repository struct {
	db         *sql.DB
	receiptDir string
}

// SyncState values tracked per bill.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// PendingBill is the minimal record the sync worker needs to replay a
// missed message.
type PendingBill struct {
	Key       string
	Email     string
	CreatedAt time.Time
}

func NewRepository(dbPath, receiptDir string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if receiptDir != "" {
		if err := os.MkdirAll(receiptDir, 0755); err != nil {
			return nil, fmt.Errorf("create receipt directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, receiptDir: receiptDir}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const billColumns = `key, email, type, name, date, amount, vat, pct, commentary, file_url, file_name, status`

// List implements store.BillLister.
func (r *Repository) List(ctx context.Context, email string) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE email = ? ORDER BY created_at`, email)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

// Create implements store.BillCreator.
func (r *Repository) Create(ctx context.Context, bill core.Bill) (core.Bill, error) {
	if bill.Key == "" {
		bill.Key = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`, sync_status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.Key, bill.Email, bill.Type, bill.Name, bill.Date, bill.Amount, bill.VAT, bill.Pct,
		bill.Commentary, bill.FileURL, bill.FileName, string(bill.Status), SyncPending)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	return bill, nil
}

// Update implements store.BillUpdater.
func (r *Repository) Update(ctx context.Context, key string, bill core.Bill) (core.Bill, error) {
	bill.Key = key
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET email = ?, type = ?, name = ?, date = ?, amount = ?, vat = ?, pct = ?,
		 commentary = ?, file_url = ?, file_name = ?, status = ?, sync_status = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
		bill.Email, bill.Type, bill.Name, bill.Date, bill.Amount, bill.VAT, bill.Pct,
		bill.Commentary, bill.FileURL, bill.FileName, string(bill.Status), SyncPending, key)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill rows affected: %w", err)
	}
	if affected == 0 {
		return core.Bill{}, fmt.Errorf("update bill %s: %w", key, store.ErrNotFound)
	}
	return bill, nil
}

// UploadReceipt implements store.ReceiptUploader by writing the file
// under the local receipt directory and reserving a bill key for the
// eventual submit, mirroring the remote upload channel.
func (r *Repository) UploadReceipt(ctx context.Context, email string, att core.Attachment) (store.UploadResult, error) {
	key := uuid.NewString()
	name := key + filepath.Ext(att.FileName)
	path := filepath.Join(r.receiptDir, name)
	if err := os.WriteFile(path, att.Data, 0644); err != nil {
		return store.UploadResult{}, fmt.Errorf("write receipt file: %w", err)
	}

	fileURL := "file://" + path
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (key, email, file_url, file_name, status, sync_status,
		 type, name, date, amount, vat, pct, commentary)
		 VALUES (?, ?, ?, ?, ?, ?, '', '', '', 0, 0, ?, '')`,
		key, email, fileURL, att.FileName, string(core.StatusPending), SyncPending, core.DefaultPct)
	if err != nil {
		return store.UploadResult{}, fmt.Errorf("reserve bill key: %w", err)
	}

	return store.UploadResult{FileURL: fileURL, Key: key, FileName: att.FileName}, nil
}

// GetBill returns the bill stored under key.
func (r *Repository) GetBill(ctx context.Context, key string) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE key = ?`, key)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, fmt.Errorf("get bill %s: %w", key, store.ErrNotFound)
	}
	if err != nil {
		return core.Bill{}, err
	}
	return b, nil
}

// PendingSync returns bills not yet pushed to the remote API, oldest
// first, for the worker's startup replay.
func (r *Repository) PendingSync(ctx context.Context, limit int) ([]PendingBill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, email, created_at FROM bills WHERE sync_status = ? ORDER BY created_at LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync bills: %w", err)
	}
	defer rows.Close()

	var out []PendingBill
	for rows.Next() {
		var p PendingBill
		if err := rows.Scan(&p.Key, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending bill: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful remote push.
func (r *Repository) MarkSynced(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE bills SET sync_status = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
		SyncDone, key); err != nil {
		return fmt.Errorf("mark bill synced: %w", err)
	}
	return nil
}

// MarkSyncError records a failed remote push.
func (r *Repository) MarkSyncError(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE bills SET sync_status = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
		SyncError, key); err != nil {
		return fmt.Errorf("mark bill sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (core.Bill, error) {
	var b core.Bill
	var status string
	err := row.Scan(&b.Key, &b.Email, &b.Type, &b.Name, &b.Date, &b.Amount, &b.VAT, &b.Pct,
		&b.Commentary, &b.FileURL, &b.FileName, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Bill{}, err
		}
		return core.Bill{}, fmt.Errorf("scan bill: %w", err)
	}
	b.Status = core.Status(status)
	return b, nil
}
