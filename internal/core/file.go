package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Attachment is a candidate receipt file staged for upload.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

var allowedReceiptTypes = map[string]struct{}{
	"image/jpg":  {},
	"image/jpeg": {},
	"image/png":  {},
}

var allowedReceiptExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// UnsupportedFileTypeError rejects a receipt before any network call is
// made. The caller owns the user-facing alert and input reset.
type UnsupportedFileTypeError struct {
	FileName    string
	ContentType string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported receipt file type %q for %q: only jpg, jpeg and png are accepted", e.ContentType, e.FileName)
}

// ValidateReceipt gates an attachment on its declared MIME type, with a
// case-insensitive extension check when no type was declared.
func ValidateReceipt(a Attachment) error {
	ct := strings.ToLower(strings.TrimSpace(a.ContentType))
	if ct != "" {
		if _, ok := allowedReceiptTypes[ct]; ok {
			return nil
		}
		return &UnsupportedFileTypeError{FileName: a.FileName, ContentType: a.ContentType}
	}
	ext := strings.ToLower(filepath.Ext(a.FileName))
	if _, ok := allowedReceiptExtensions[ext]; ok {
		return nil
	}
	return &UnsupportedFileTypeError{FileName: a.FileName, ContentType: a.ContentType}
}
