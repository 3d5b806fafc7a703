package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"billed/internal/core"
	"billed/internal/store"
)

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bills" {
			t.Errorf("path = %q, want /bills", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "a@a" {
			t.Errorf("email query = %q, want a@a", got)
		}
		_ = json.NewEncoder(w).Encode([]core.Bill{
			{Key: "b1", Email: "a@a", Name: "train", Date: "2004-01-01", Status: core.StatusPending},
		})
	}))
	defer srv.Close()

	bills, err := NewClient(srv.URL).List(context.Background(), "a@a")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bills) != 1 || bills[0].Key != "b1" {
		t.Fatalf("unexpected bills: %+v", bills)
	}
}

func TestClient_ListErrorCarriesStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "Erreur 404"},
		{http.StatusInternalServerError, "Erreur 500"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := NewClient(srv.URL).List(context.Background(), "a@a")
		srv.Close()

		var netErr *store.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("List error = %v, want *store.NetworkError", err)
		}
		if netErr.Message != tt.want {
			t.Errorf("message = %q, want %q", netErr.Message, tt.want)
		}
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want upstream message verbatim %q", err.Error(), tt.want)
		}
	}
}

func TestClient_UploadReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bills/receipts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("email"); got != "a@a" {
			t.Errorf("email field = %q, want a@a", got)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if header.Filename != "sample.jpg" {
			t.Errorf("filename = %q, want sample.jpg", header.Filename)
		}
		_ = json.NewEncoder(w).Encode(store.UploadResult{
			FileURL:  "https://blob.local/receipts/sample.jpg",
			Key:      "b42",
			FileName: "sample.jpg",
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).UploadReceipt(context.Background(), "a@a", core.Attachment{
		FileName:    "sample.jpg",
		ContentType: "image/jpg",
		Data:        []byte("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("UploadReceipt: %v", err)
	}
	if res.Key != "b42" || res.FileName != "sample.jpg" {
		t.Fatalf("unexpected upload result: %+v", res)
	}
}

func TestClient_Update(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/bills/b42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var bill core.Bill
		if err := json.NewDecoder(r.Body).Decode(&bill); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		bill.Key = "b42"
		_ = json.NewEncoder(w).Encode(bill)
	}))
	defer srv.Close()

	updated, err := NewClient(srv.URL).Update(context.Background(), "b42", core.Bill{Name: "encore", Status: core.StatusPending})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Key != "b42" || updated.Name != "encore" {
		t.Fatalf("unexpected updated bill: %+v", updated)
	}
}
