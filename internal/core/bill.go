package core

import (
	"strconv"
	"strings"
)

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// DefaultPct is injected when the submitted percentage field is blank
// or not numeric.
const DefaultPct = 20

type (
	Status string

	// Bill is a single expense record owned by one employee. Date holds
	// the stored textual value; the canonical form is YYYY-MM-DD but
	// older records may carry anything (see ParseBillDate).
	Bill struct {
		Key        string `json:"id,omitempty"`
		Email      string `json:"email"`
		Type       string `json:"type"`
		Name       string `json:"name"`
		Date       string `json:"date"`
		Amount     int64  `json:"amount"`
		VAT        int64  `json:"vat"`
		Pct        int64  `json:"pct"`
		Commentary string `json:"commentary"`
		FileURL    string `json:"fileUrl"`
		FileName   string `json:"fileName"`
		Status     Status `json:"status"`
	}

	// DraftBill is the in-memory, not-yet-persisted bill under
	// construction during form entry. The key and attachment fields are
	// set when receipt staging completes; they stay empty on the
	// degraded submit path.
	DraftBill struct {
		Key      string `json:"id,omitempty"`
		FileURL  string `json:"fileUrl"`
		FileName string `json:"fileName"`
	}

	// FormFields carries the raw textual values captured from the new
	// bill form. Coercion happens in AssembleBill, not at capture time.
	FormFields struct {
		Type       string `json:"type"`
		Name       string `json:"name"`
		Date       string `json:"date"`
		Amount     string `json:"amount"`
		VAT        string `json:"vat"`
		Pct        string `json:"pct"`
		Commentary string `json:"commentary"`
	}
)

// Staged reports whether a receipt upload completed for this draft.
func (d DraftBill) Staged() bool {
	return d.FileURL != "" && d.FileName != ""
}

// AssembleBill builds the bill to persist from the captured form fields
// and the staged draft. Fields are copied verbatim except amount and
// vat, which are coerced to integers (blank vat becomes 0), and pct,
// which falls back to DefaultPct. Status is always forced to pending.
func AssembleBill(draft DraftBill, fields FormFields, email string) Bill {
	return Bill{
		Key:        draft.Key,
		Email:      email,
		Type:       fields.Type,
		Name:       fields.Name,
		Date:       fields.Date,
		Amount:     intOr(fields.Amount, 0),
		VAT:        intOr(fields.VAT, 0),
		Pct:        intOr(fields.Pct, DefaultPct),
		Commentary: fields.Commentary,
		FileURL:    draft.FileURL,
		FileName:   draft.FileName,
		Status:     StatusPending,
	}
}

// DisplayStatus returns the user-facing label for a bill status.
func (s Status) DisplayStatus() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refused"
	default:
		return string(s)
	}
}

func intOr(raw string, fallback int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
