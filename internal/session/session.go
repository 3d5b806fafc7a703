package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Context is the identity both pipelines operate under. It is passed
// explicitly at construction time, never read from ambient globals.
type Context struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

var ErrNoSession = errors.New("no session available")

// FileStore persists the current user record as a small JSON file, the
// equivalent of the browser's key-value session storage. This package
// only ever reads it.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Current reads the persisted user record.
func (s *FileStore) Current() (Context, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Context{}, ErrNoSession
		}
		return Context{}, fmt.Errorf("read session file: %w", err)
	}

	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return Context{}, fmt.Errorf("decode session file: %w", err)
	}
	if strings.TrimSpace(ctx.Email) == "" {
		return Context{}, ErrNoSession
	}
	return ctx, nil
}

// FromEnv builds a session from BILLED_USER_EMAIL / BILLED_USER_TYPE,
// the fallback used when no session file is configured.
func FromEnv() (Context, error) {
	email := strings.TrimSpace(os.Getenv("BILLED_USER_EMAIL"))
	if email == "" {
		return Context{}, ErrNoSession
	}
	userType := os.Getenv("BILLED_USER_TYPE")
	if userType == "" {
		userType = "Employee"
	}
	return Context{Email: email, Type: userType}, nil
}
