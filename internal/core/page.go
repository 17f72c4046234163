package core

// page.go derives the visible slice and its display aggregates from an
// already sorted (and optionally filtered) record collection.

import "github.com/shopspring/decimal"

// Paginate returns the records for a 1-based page of the given size. Pages
// past the end are empty; page and size values below 1 are clamped.
func Paginate(records []Record, page, size int) []Record {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	start := (page - 1) * size
	if start >= len(records) {
		return nil
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// TotalPages returns the page count for a collection, never less than 1.
func TotalPages(count, size int) int {
	if size < 1 {
		size = 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// PageSummary holds running totals over the currently visible slice only.
// These are display aggregates, not validated data: cells that do not parse
// as numbers contribute nothing.
type PageSummary struct {
	Cost        decimal.Decimal
	Consumption decimal.Decimal
}

// Summarize totals cost and consumption across the visible records.
func Summarize(visible []Record) PageSummary {
	var s PageSummary
	for _, rec := range visible {
		if d, ok := ParseNumber(rec["cost"]); ok {
			s.Cost = s.Cost.Add(d)
		}
		if d, ok := ParseNumber(rec["consumption"]); ok {
			s.Consumption = s.Consumption.Add(d)
		}
	}
	return s
}
