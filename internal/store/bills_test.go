package store

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Sustained-Sync-API/cs4850/internal/core"
)

func fullRecord() core.Record {
	return core.Record{
		"bill_id":          "12345",
		"bill_type":        "Power",
		"bill_date":        "2024-01-01",
		"service_start":    "2023-12-01",
		"service_end":      "2023-12-31",
		"units_of_measure": "kWh",
		"consumption":      "1200",
		"cost":             "$450.32",
		"provider":         "Duluth Utilities",
		"city":             "Duluth",
		"state":            "GA",
		"zip":              "30096",
	}
}

func TestConvertBill(t *testing.T) {
	p, err := convertBill(fullRecord())
	if err != nil {
		t.Fatal(err)
	}

	if p.BillID != 12345 {
		t.Errorf("BillID = %d", p.BillID)
	}
	if p.BillType != "Power" {
		t.Errorf("BillType = %q", p.BillType)
	}
	if !p.BillDate.Valid || p.BillDate.Time.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("BillDate = %+v", p.BillDate)
	}
	if !p.Cost.Valid {
		t.Error("Cost not valid")
	}
	if !p.Provider.Valid || p.Provider.String != "Duluth Utilities" {
		t.Errorf("Provider = %+v", p.Provider)
	}
}

func TestConvertBill_OptionalFieldsEmpty(t *testing.T) {
	rec := fullRecord()
	rec["service_start"] = ""
	rec["service_end"] = ""
	rec["units_of_measure"] = ""
	rec["provider"] = ""
	rec["zip"] = "  "

	p, err := convertBill(rec)
	if err != nil {
		t.Fatal(err)
	}
	if p.ServiceStart.Valid || p.ServiceEnd.Valid || p.Units.Valid || p.Provider.Valid || p.Zip.Valid {
		t.Errorf("expected empty optionals to store as NULL: %+v", p)
	}
}

func TestConvertBill_Errors(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantMsg string
	}{
		{"non-numeric id", "bill_id", "abc", "bill_id must be an integer"},
		{"fractional id", "bill_id", "12.5", "bill_id must be an integer"},
		{"unknown type", "bill_type", "Solar", "bill_type must be one of: Power, Gas, Water"},
		{"unknown unit", "units_of_measure", "liters", "units_of_measure must be one of: kWh, therms, CCF"},
		{"bad date", "bill_date", "not-a-date", "bill_date must be a date"},
		{"bad service date", "service_end", "soon", "service_end must be a date"},
		{"bad consumption", "consumption", "lots", "consumption must be numeric"},
		{"bad cost", "cost", "1.2.3", "cost must be numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fullRecord()
			rec[tt.field] = tt.value

			_, err := convertBill(rec)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestNumericString(t *testing.T) {
	if got := numericString(pgtype.Numeric{}); got != "" {
		t.Errorf("invalid numeric = %q", got)
	}

	n := pgtype.Numeric{Int: big.NewInt(45032), Exp: -2, Valid: true}
	if got := numericString(n); got != "450.32" {
		t.Errorf("numericString = %q", got)
	}
}

func TestDateString_MonthBucket(t *testing.T) {
	// Trend buckets render as the ISO first-of-month date, not "YYYY-MM".
	month := pgtype.Date{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	if got := dateString(month); got != "2024-01-01" {
		t.Errorf("dateString = %q, want %q", got, "2024-01-01")
	}
}

func TestTextAndDateHelpers(t *testing.T) {
	if toText("  ").Valid {
		t.Error("whitespace should store as NULL")
	}
	if got := toText(" x "); !got.Valid || got.String != "x" {
		t.Errorf("toText = %+v", got)
	}

	d, err := toDate("", "f")
	if err != nil || d.Valid {
		t.Errorf("empty date: %+v %v", d, err)
	}
	if got := dateString(pgtype.Date{}); got != "" {
		t.Errorf("invalid date string = %q", got)
	}
}
