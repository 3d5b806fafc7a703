package core

import "testing"

func TestAssembleBill(t *testing.T) {
	draft := DraftBill{
		Key:      "47qAXb6fIm2zOKkLzMro",
		FileURL:  "https://storage.googleapis.com/billed-receipts/receipts/a%40a/sample.jpg",
		FileName: "sample.jpg",
	}
	fields := FormFields{
		Type:       "Hôtel et logement",
		Name:       "séminaire",
		Date:       "2004-04-04",
		Amount:     "400",
		VAT:        "80",
		Pct:        "25",
		Commentary: "séminaire billed",
	}

	bill := AssembleBill(draft, fields, "a@a")

	if bill.Status != StatusPending {
		t.Errorf("Status = %q, want %q", bill.Status, StatusPending)
	}
	if bill.Email != "a@a" {
		t.Errorf("Email = %q, want a@a", bill.Email)
	}
	if bill.Amount != 400 || bill.VAT != 80 || bill.Pct != 25 {
		t.Errorf("coerced numbers = (%d, %d, %d), want (400, 80, 25)", bill.Amount, bill.VAT, bill.Pct)
	}
	if bill.Key != draft.Key || bill.FileURL != draft.FileURL || bill.FileName != draft.FileName {
		t.Errorf("staged attachment fields not carried onto bill: %+v", bill)
	}
	if bill.Type != fields.Type || bill.Name != fields.Name || bill.Date != fields.Date || bill.Commentary != fields.Commentary {
		t.Errorf("form fields not copied verbatim: %+v", bill)
	}
}

func TestAssembleBill_PctDefault(t *testing.T) {
	tests := []struct {
		name string
		pct  string
		want int64
	}{
		{"blank", "", DefaultPct},
		{"whitespace", "   ", DefaultPct},
		{"non-numeric", "vingt", DefaultPct},
		{"decimal is not an integer", "20.5", DefaultPct},
		{"numeric kept", "10", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := AssembleBill(DraftBill{}, FormFields{Pct: tt.pct}, "a@a")
			if bill.Pct != tt.want {
				t.Errorf("Pct = %d, want %d", bill.Pct, tt.want)
			}
		})
	}
}

func TestAssembleBill_BlankVATIsZero(t *testing.T) {
	bill := AssembleBill(DraftBill{}, FormFields{Amount: "348", VAT: ""}, "a@a")
	if bill.VAT != 0 {
		t.Errorf("VAT = %d, want 0 for blank field", bill.VAT)
	}
	if bill.Amount != 348 {
		t.Errorf("Amount = %d, want 348", bill.Amount)
	}
}

func TestDraftBill_Staged(t *testing.T) {
	if (DraftBill{}).Staged() {
		t.Error("empty draft should not report as staged")
	}
	if (DraftBill{FileURL: "https://x/receipt.jpg"}).Staged() {
		t.Error("draft without file name should not report as staged")
	}
	staged := DraftBill{FileURL: "https://x/receipt.jpg", FileName: "receipt.jpg"}
	if !staged.Staged() {
		t.Error("draft with url and name should report as staged")
	}
}

func TestStatus_DisplayStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "En attente"},
		{StatusAccepted, "Accepté"},
		{StatusRefused, "Refused"},
		{Status("archived"), "archived"},
	}

	for _, tt := range tests {
		if got := tt.status.DisplayStatus(); got != tt.want {
			t.Errorf("DisplayStatus(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
