package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"billed/internal/core"
	"billed/internal/log"
	"billed/internal/services"
	"billed/internal/store"
)

const maxReceiptSize = 10 << 20 // 10MB

// handleListBills renders the ordered bill list, or the store's error
// message in its place.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession()
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "no session")
		return
	}

	svc := services.NewBillListService(s.billStore, sess, s.logger)
	bills, err := svc.FetchAndOrder(r.Context())
	if err != nil {
		// The upstream message replaces the list content.
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, bills)
}

// handleUploadReceipt validates and stages a receipt file. The staged
// draft goes back to the client, which threads it into the submit.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, err := s.currentSession()
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "no session")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse multipart form error",
			log.FieldError, err,
			log.FieldPath, r.URL.Path)
		writeJSONError(w, http.StatusBadRequest, "invalid upload request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	att := core.Attachment{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	pipeline := services.NewSubmissionPipeline(s.billStore, sess, nil, s.publisher, s.logger)
	draft, err := pipeline.ValidateAndStageFile(r.Context(), core.DraftBill{}, att)
	if err != nil {
		var typeErr *core.UnsupportedFileTypeError
		if errors.As(err, &typeErr) {
			// One alert, and the file input resets so a later submit
			// cannot reference the rejected file.
			w.Header().Set("HX-Trigger", fmt.Sprintf(`{"file:reset": {}, "show-notification": {"type": "error", "message": %q}}`, typeErr.Error()))
			writeJSONError(w, http.StatusUnprocessableEntity, typeErr.Error())
			return
		}
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, draft)
}

// handleSubmitBill persists a completed bill and, on success, navigates
// back to the bill list. Failures keep the user on the form.
func (s *Server) handleSubmitBill(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession()
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "no session")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error",
			log.FieldError, err,
			log.FieldPath, r.URL.Path)
		writeJSONError(w, http.StatusBadRequest, "invalid form")
		return
	}

	draft := core.DraftBill{
		Key:      r.Form.Get("key"),
		FileURL:  r.Form.Get("fileUrl"),
		FileName: r.Form.Get("fileName"),
	}
	fields := core.FormFields{
		Type:       r.Form.Get("type"),
		Name:       r.Form.Get("name"),
		Date:       r.Form.Get("date"),
		Amount:     r.Form.Get("amount"),
		VAT:        r.Form.Get("vat"),
		Pct:        r.Form.Get("pct"),
		Commentary: r.Form.Get("commentary"),
	}

	nav := &redirectNavigator{w: w}
	pipeline := services.NewSubmissionPipeline(s.billStore, sess, nav, s.publisher, s.logger)
	if _, err := pipeline.Submit(r.Context(), draft, fields); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, store.ErrNoStore) {
			status = http.StatusServiceUnavailable
		}
		writeJSONError(w, status, err.Error())
		return
	}
	// The navigator already wrote the redirect.
}

// redirectNavigator turns a pipeline navigation request into an HTTP
// redirect.
type redirectNavigator struct {
	w http.ResponseWriter
}

func (n *redirectNavigator) OnNavigate(pathname string) {
	n.w.Header().Set("Location", pathname)
	n.w.WriteHeader(http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
