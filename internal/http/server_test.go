package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"billed/internal/core"
	"billed/internal/services"
	"billed/internal/session"
	"billed/internal/store"
	"billed/internal/store/memory"
)

type failingStore struct {
	err error
}

func (f *failingStore) List(context.Context, string) ([]core.Bill, error) { return nil, f.err }
func (f *failingStore) Create(context.Context, core.Bill) (core.Bill, error) {
	return core.Bill{}, f.err
}
func (f *failingStore) Update(context.Context, string, core.Bill) (core.Bill, error) {
	return core.Bill{}, f.err
}
func (f *failingStore) UploadReceipt(context.Context, string, core.Attachment) (store.UploadResult, error) {
	return store.UploadResult{}, f.err
}

func testSessionFile(t *testing.T) *session.FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"type":"Employee","email":"a@a"}`), 0644); err != nil {
		t.Fatalf("write session file: %v", err)
	}
	return session.NewFileStore(path)
}

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	srv := NewServer(":0", st, testSessionFile(t), nil, nil)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestHandleListBills_Ordered(t *testing.T) {
	st := memory.New(
		core.Bill{Email: "a@a", Name: "train", Date: "2002-02-02", Status: core.StatusPending},
		core.Bill{Email: "a@a", Name: "hôtel", Date: "2004-01-01", Status: core.StatusAccepted},
		core.Bill{Email: "a@a", Name: "taxi", Date: "2003-03-03", Status: core.StatusRefused},
	)
	ts := newTestServer(t, st)

	resp, err := http.Get(ts.URL + "/api/bills")
	if err != nil {
		t.Fatalf("GET /api/bills: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var bills []services.DisplayBill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("got %d bills, want 3", len(bills))
	}
	want := []string{"2004-01-01", "2003-03-03", "2002-02-02"}
	for i, date := range want {
		if bills[i].Date != date {
			t.Errorf("position %d date = %q, want %q", i, bills[i].Date, date)
		}
	}
}

func TestHandleListBills_StoreErrorRendersMessage(t *testing.T) {
	ts := newTestServer(t, &failingStore{err: &store.NetworkError{Op: "list", Message: "Erreur 404"}})

	resp, err := http.Get(ts.URL + "/api/bills")
	if err != nil {
		t.Fatalf("GET /api/bills: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "Erreur 404" {
		t.Errorf("error message = %q, want upstream Erreur 404 verbatim", body["error"])
	}
}

func multipartBody(t *testing.T, fileName, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleUploadReceipt_AcceptsImage(t *testing.T) {
	st := memory.New()
	ts := newTestServer(t, st)

	body, contentType := multipartBody(t, "sample.jpg", "image/jpg")
	resp, err := http.Post(ts.URL+"/api/bills/receipts", contentType, body)
	if err != nil {
		t.Fatalf("POST receipt: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("HX-Trigger") != "" {
		t.Errorf("accepted upload must not raise an alert, got %q", resp.Header.Get("HX-Trigger"))
	}

	var draft core.DraftBill
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if !draft.Staged() || draft.Key == "" {
		t.Errorf("draft not staged: %+v", draft)
	}
}

func TestHandleUploadReceipt_RejectsTextFile(t *testing.T) {
	st := memory.New()
	ts := newTestServer(t, st)

	body, contentType := multipartBody(t, "sample.txt", "text/plain")
	resp, err := http.Post(ts.URL+"/api/bills/receipts", contentType, body)
	if err != nil {
		t.Fatalf("POST receipt: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	trigger := resp.Header.Get("HX-Trigger")
	if !strings.Contains(trigger, "file:reset") {
		t.Errorf("rejection must reset the file input, trigger = %q", trigger)
	}
	if strings.Count(trigger, "show-notification") != 1 {
		t.Errorf("rejection must raise exactly one alert, trigger = %q", trigger)
	}
	if st.Len() != 0 {
		t.Errorf("rejected file must not create any record, store has %d", st.Len())
	}
}

func TestHandleSubmitBill_RedirectsToBillList(t *testing.T) {
	st := memory.New()
	ts := newTestServer(t, st)

	// Stage a receipt first, as the normal flow does.
	uploadBody, uploadType := multipartBody(t, "sample.jpg", "image/jpg")
	uploadResp, err := http.Post(ts.URL+"/api/bills/receipts", uploadType, uploadBody)
	if err != nil {
		t.Fatalf("POST receipt: %v", err)
	}
	var draft core.DraftBill
	if err := json.NewDecoder(uploadResp.Body).Decode(&draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	uploadResp.Body.Close()

	form := url.Values{
		"key":        {draft.Key},
		"fileUrl":    {draft.FileURL},
		"fileName":   {draft.FileName},
		"type":       {"Hôtel et logement"},
		"name":       {"encore"},
		"date":       {"2004-04-04"},
		"amount":     {"400"},
		"vat":        {"80"},
		"pct":        {""},
		"commentary": {"séminaire billed"},
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.PostForm(ts.URL+"/api/bills", form)
	if err != nil {
		t.Fatalf("POST bill: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/bills" {
		t.Errorf("Location = %q, want /bills", loc)
	}
}

func TestHandleSubmitBill_FailureStaysOnForm(t *testing.T) {
	ts := newTestServer(t, &failingStore{err: &store.NetworkError{Op: "update", Message: "Erreur 500"}})

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.PostForm(ts.URL+"/api/bills", url.Values{
		"key":  {"b42"},
		"name": {"encore"},
	})
	if err != nil {
		t.Fatalf("POST bill: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "" {
		t.Error("failed submit must not redirect")
	}
}
