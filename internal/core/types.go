package core

import (
	"context"
	"strconv"
)

// Record maps field names to raw string values. Within a batch every record
// carries exactly the batch's header set; absent values are empty strings,
// never missing keys.
type Record map[string]string

// RowFile marks an issue that cannot be attributed to a specific record,
// such as a failure reading the upload itself.
const RowFile = -1

// Issue is a validation or parse problem tied to a source-file row.
// Row is 1-based and includes the header line, so record index 0 reports
// as row 2.
type Issue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RowLabel returns the row for display, using "file" for issues not tied
// to a record.
func (i Issue) RowLabel() string {
	if i.Row == RowFile {
		return "file"
	}
	return strconv.Itoa(i.Row)
}

func (i Issue) String() string {
	return "row " + i.RowLabel() + ": " + i.Message
}

// FieldType classifies how a field's text value is interpreted by the
// validation rules and the sort engine.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
)

// FieldSpec describes one column of a record batch.
type FieldSpec struct {
	Name       string    // Field name, as it appears in the CSV header
	Type       FieldType // How non-empty values are interpreted
	Required   bool      // Empty or missing values raise an issue
	EnumValues []string  // Allowed values for FieldEnum
}

// RequiredFields returns the names of the required specs, in spec order.
// This is also the header fallback for files with no header row.
func RequiredFields(specs []FieldSpec) []string {
	var names []string
	for _, spec := range specs {
		if spec.Required {
			names = append(names, spec.Name)
		}
	}
	return names
}

// Upload result statuses, matching the bills API contract.
const (
	StatusSuccess             = "success"
	StatusCompletedWithErrors = "completed_with_errors"
)

// UploadResult is the structured outcome of submitting a batch.
type UploadResult struct {
	UploadID string  `json:"upload_id,omitempty"`
	Inserted int     `json:"inserted"`
	Updated  int     `json:"updated"`
	Errors   []Issue `json:"errors"`
	Status   string  `json:"status"`
}

// Uploader delivers a serialized batch to the bills endpoint. Transport,
// retries, and HTTP status interpretation live behind this interface; the
// batch only distinguishes a result from a transport error.
type Uploader interface {
	Upload(ctx context.Context, filename, csvText string) (*UploadResult, error)
}
