package core

// batch.go implements the editable grid state for a CSV upload under
// review. A Batch is a value: every mutation returns a new Batch with the
// issue list already recomputed, and only the touched row is reallocated,
// so untouched records stay referentially identical for cheap change
// detection in a UI layer.

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/Sustained-Sync-API/cs4850/internal/csvio"
)

// Batch holds the rows of one upload while it is being reviewed and edited.
// Issues is derived state, recomputed on every mutation, never mutated
// independently.
type Batch struct {
	Headers []string
	Rows    []Record
	Issues  []Issue

	specs []FieldSpec
}

// NewBatch returns an empty batch for the given field specifications.
// Headers start as the required-field fallback and are replaced when a file
// with its own header row is loaded.
func NewBatch(specs []FieldSpec) Batch {
	return Batch{
		Headers: RequiredFields(specs),
		specs:   specs,
	}
}

// Load adopts parsed CSV content into the batch. Non-empty parsed headers
// replace the current header set; otherwise the prior headers are kept.
// Fully blank data rows are dropped, remaining rows are keyed by the
// effective headers with missing trailing cells defaulting to "", and the
// batch is re-validated.
func (b Batch) Load(headers []string, rows [][]string) Batch {
	nb := b
	if len(headers) > 0 {
		nb.Headers = headers
	}

	nb.Rows = nil
	for _, row := range rows {
		if isBlankCells(row) {
			continue
		}
		rec := make(Record, len(nb.Headers))
		for i, h := range nb.Headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		nb.Rows = append(nb.Rows, rec)
	}

	nb.Issues = Validate(nb.Rows, nb.specs)
	return nb
}

// EditCell replaces the value of one field on one row and re-validates.
// All other records are carried over unchanged.
func (b Batch) EditCell(rowIndex int, field, value string) (Batch, error) {
	if rowIndex < 0 || rowIndex >= len(b.Rows) {
		return b, fmt.Errorf("edit cell: row %d out of range (%d rows)", rowIndex, len(b.Rows))
	}
	if !containsValue(b.Headers, field) {
		return b, fmt.Errorf("edit cell: unknown field %q", field)
	}

	nb := b
	nb.Rows = make([]Record, len(b.Rows))
	copy(nb.Rows, b.Rows)

	rec := maps.Clone(b.Rows[rowIndex])
	rec[field] = value
	nb.Rows[rowIndex] = rec

	nb.Issues = Validate(nb.Rows, nb.specs)
	return nb, nil
}

// AddRow appends a record with every header field set to "" and
// re-validates (the new row immediately reports its required fields).
func (b Batch) AddRow() Batch {
	rec := make(Record, len(b.Headers))
	for _, h := range b.Headers {
		rec[h] = ""
	}

	nb := b
	nb.Rows = append(append([]Record{}, b.Rows...), rec)
	nb.Issues = Validate(nb.Rows, nb.specs)
	return nb
}

// RemoveRow deletes the record at rowIndex and re-validates. Issue row
// numbers for later records shift accordingly; they reference the current
// index, not the original file line.
func (b Batch) RemoveRow(rowIndex int) (Batch, error) {
	if rowIndex < 0 || rowIndex >= len(b.Rows) {
		return b, fmt.Errorf("remove row: row %d out of range (%d rows)", rowIndex, len(b.Rows))
	}

	nb := b
	nb.Rows = make([]Record, 0, len(b.Rows)-1)
	nb.Rows = append(nb.Rows, b.Rows[:rowIndex]...)
	nb.Rows = append(nb.Rows, b.Rows[rowIndex+1:]...)
	nb.Issues = Validate(nb.Rows, nb.specs)
	return nb, nil
}

// CanSubmit reports whether the batch has rows and no outstanding issues.
// Derived on demand so it can never go stale.
func (b Batch) CanSubmit() bool {
	return len(b.Rows) > 0 && len(b.Issues) == 0
}

// CSV serializes the batch in header order.
func (b Batch) CSV() string {
	records := make([]map[string]string, len(b.Rows))
	for i, rec := range b.Rows {
		records[i] = rec
	}
	return csvio.Stringify(b.Headers, records)
}

// Submit re-validates as a final guard, serializes the batch, and hands it
// to the uploader. The batch itself is unchanged, so a transport failure
// leaves the user's rows intact for retry.
func (b Batch) Submit(ctx context.Context, filename string, up Uploader) (*UploadResult, error) {
	if len(b.Rows) == 0 {
		return nil, fmt.Errorf("submit: batch has no rows")
	}
	if issues := Validate(b.Rows, b.specs); len(issues) > 0 {
		return nil, fmt.Errorf("submit: batch has %d unresolved issues", len(issues))
	}
	return up.Upload(ctx, filename, b.CSV())
}

func isBlankCells(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
