package backend

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"billed/internal/config"
	"billed/internal/log"
	"billed/internal/store"
	"billed/internal/store/gcs"
	"billed/internal/store/httpapi"
	"billed/internal/store/memory"
	"billed/internal/store/sqlite"
)

// Type identifies a bill store backend.
type Type string

const (
	Memory  Type = "memory"
	SQLite  Type = "sqlite"
	HTTPAPI Type = "httpapi"
)

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, HTTPAPI:
		return true
	}
	return false
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the assembled store with its cleanup and, for the
// sqlite backend, the repository handle the sync worker reads from.
type Result struct {
	Store   store.Store
	Local   *sqlite.Repository
	Cleanup CleanupFunc
}

// New assembles the bill store described by cfg. When a GCS bucket is
// configured, receipt uploads are routed there regardless of the bill
// backend.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentBackend)

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var res *Result
	switch t {
	case SQLite:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath, cfg.ReceiptDir)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend",
			"db_path", cfg.SQLiteDBPath,
			log.FieldBackend, cfg.DataBackend)
		res = &Result{Store: repo, Local: repo, Cleanup: repo.Close}

	case HTTPAPI:
		client := httpapi.NewClient(cfg.RemoteAPIURL)
		logger.Info("Initialized remote API backend",
			"base_url", cfg.RemoteAPIURL,
			log.FieldBackend, cfg.DataBackend)
		res = &Result{Store: client}

	default:
		logger.Info("Initialized memory backend", log.FieldBackend, cfg.DataBackend)
		res = &Result{Store: memory.New()}
	}

	if cfg.GCSBucket != "" {
		var opts []option.ClientOption
		if cfg.GCSCredentialsJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GCSCredentialsJSON)))
		} else if cfg.GCSCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
		}

		uploader, err := gcs.NewUploader(ctx, cfg.GCSBucket, opts...)
		if err != nil {
			if res.Cleanup != nil {
				_ = res.Cleanup()
			}
			return nil, fmt.Errorf("initialize GCS receipt uploader: %w", err)
		}
		logger.Info("Routing receipt uploads to GCS", "bucket", cfg.GCSBucket)

		res.Store = store.WithReceiptUploader(res.Store, uploader)
		base := res.Cleanup
		res.Cleanup = func() error {
			uerr := uploader.Close()
			if base != nil {
				if berr := base(); berr != nil {
					return berr
				}
			}
			return uerr
		}
	}

	return res, nil
}
