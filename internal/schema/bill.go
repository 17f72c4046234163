// Package schema defines the bill record layout shared by the review grid,
// the bills API, and the template download.
package schema

import "github.com/Sustained-Sync-API/cs4850/internal/core"

// Allowed bill types. The review grid enforces these; anything else blocks
// submission.
var BillTypes = []string{"Power", "Gas", "Water"}

// Allowed units of measure. Enforced at storage time, not in the grid.
var Units = []string{"kWh", "therms", "CCF"}

// BillFields describes every column a bill upload can carry. Order matters:
// it drives the required-header fallback and the per-record order issues are
// reported in. Date-typed optional fields carry no review rules; the type
// only selects their sort comparator and storage conversion.
var BillFields = []core.FieldSpec{
	{Name: "bill_id", Type: core.FieldNumeric, Required: true},
	{Name: "bill_type", Type: core.FieldEnum, Required: true, EnumValues: BillTypes},
	{Name: "bill_date", Type: core.FieldDate, Required: true},
	{Name: "units_of_measure", Type: core.FieldText, Required: true},
	{Name: "consumption", Type: core.FieldNumeric, Required: true},
	{Name: "cost", Type: core.FieldNumeric, Required: true},
	{Name: "service_start", Type: core.FieldDate},
	{Name: "service_end", Type: core.FieldDate},
	{Name: "provider", Type: core.FieldText},
	{Name: "city", Type: core.FieldText},
	{Name: "state", Type: core.FieldText},
	{Name: "zip", Type: core.FieldText},
	{Name: "timestamp_upload", Type: core.FieldDate},
}

// RequiredHeaders is the six-column header fallback for files without a
// header row.
var RequiredHeaders = core.RequiredFields(BillFields)

// TemplateHeaders is the header row of the downloadable CSV template: the
// required fields in fallback order, then the optional upload columns.
var TemplateHeaders = []string{
	"bill_id", "bill_type", "bill_date", "units_of_measure", "consumption", "cost",
	"service_start", "service_end", "provider", "city", "state", "zip",
}

// TemplateExampleRow is a sample bill shipped in the template download.
var TemplateExampleRow = []string{
	"12345", "Power", "2024-01-01", "kWh", "1200", "450.32",
	"2023-12-01", "2023-12-31", "Duluth Utilities", "Duluth", "GA", "30096",
}

// SortColumns is the column-type table for browsing persisted bills.
// "period" and "location" are virtual columns composed from several record
// fields; the rest sort on the field named by their key.
var SortColumns = []core.Column{
	{Key: "bill_id", Type: core.SortNumber, DefaultDir: core.Asc},
	{Key: "bill_type", Type: core.SortString, DefaultDir: core.Asc},
	{Key: "bill_date", Type: core.SortDate, DefaultDir: core.Desc},
	{Key: "units_of_measure", Type: core.SortString, DefaultDir: core.Asc},
	{Key: "consumption", Type: core.SortNumber, DefaultDir: core.Desc},
	{Key: "cost", Type: core.SortNumber, DefaultDir: core.Desc},
	{Key: "period", Type: core.SortDate, DefaultDir: core.Desc, Fields: []string{"service_start", "service_end"}},
	{Key: "provider", Type: core.SortString, DefaultDir: core.Asc},
	{Key: "location", Type: core.SortString, DefaultDir: core.Asc, Fields: []string{"city", "state", "zip"}},
	{Key: "timestamp_upload", Type: core.SortDate, DefaultDir: core.Desc},
}

// DefaultSort matches the stored ordering of the bills table.
var DefaultSort = core.SortState{Key: "bill_date", Dir: core.Desc}
