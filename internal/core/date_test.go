package core

import (
	"testing"
	"time"
)

func TestParseBillDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string // canonical form of the parsed value
		wantErr bool
	}{
		{"canonical", "2004-04-04", "2004-04-04", false},
		{"slash separators", "2004/04/04", "2004-04-04", false},
		{"day first", "04-04-2004", "2004-04-04", false},
		{"unpadded", "2004-4-4", "2004-04-04", false},
		{"garbage", "pas une date", "", true},
		{"empty", "", "", true},
		{"impossible day", "2004-02-31", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseBillDate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBillDate(%q) = %v, want error", tt.raw, parsed)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBillDate(%q) returned error: %v", tt.raw, err)
			}
			if got := SortKey(parsed); got != tt.want {
				t.Errorf("SortKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatShortDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2004, time.April, 4, 0, 0, 0, 0, time.UTC), "4 Avr. 04"},
		{time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC), "1 Jan. 01"},
		{time.Date(2022, time.December, 25, 0, 0, 0, 0, time.UTC), "25 Déc. 22"},
	}

	for _, tt := range tests {
		if got := FormatShortDate(tt.date); got != tt.want {
			t.Errorf("FormatShortDate(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
