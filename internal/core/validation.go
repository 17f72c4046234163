package core

// validation.go holds the rule set run over a batch before submission.
//
// Validation is global and stateless: the full batch is re-checked after
// every mutation instead of diffing the change. Batches are bounded by
// practical CSV upload sizes, so recomputing keeps the batch free of stale
// derived state. Rules are evaluated per record, in a fixed order:
//
//  1. required-field presence
//  2. enumerated values
//  3. numeric fields
//
// Issues are appended in that order with no deduplication; any issue at all
// blocks submission. The rule set mirrors the server's checks so problems
// surface during review, but the server remains authoritative.

import "strings"

// Validate runs the rule set over a record batch and returns every issue
// found. Row numbers are record index + 2, accounting for the header row
// occupying line 1 of the source file.
func Validate(records []Record, specs []FieldSpec) []Issue {
	var issues []Issue
	for idx, rec := range records {
		row := idx + 2

		// Required-field presence.
		for _, spec := range specs {
			if !spec.Required {
				continue
			}
			if strings.TrimSpace(rec[spec.Name]) == "" {
				issues = append(issues, Issue{Row: row, Message: spec.Name + " is required"})
			}
		}

		// Enumerated values. Absent values were already reported above.
		for _, spec := range specs {
			if spec.Type != FieldEnum {
				continue
			}
			val := strings.TrimSpace(rec[spec.Name])
			if val == "" {
				continue
			}
			if !containsValue(spec.EnumValues, val) {
				issues = append(issues, Issue{
					Row:     row,
					Message: spec.Name + " must be one of: " + strings.Join(spec.EnumValues, ", "),
				})
			}
		}

		// Numeric fields. Blank values are covered by the presence rule,
		// so only non-blank text is checked here.
		for _, spec := range specs {
			if spec.Type != FieldNumeric {
				continue
			}
			val := strings.TrimSpace(rec[spec.Name])
			if val == "" {
				continue
			}
			if _, ok := ParseNumber(val); !ok {
				issues = append(issues, Issue{Row: row, Message: spec.Name + " must be numeric"})
			}
		}
	}
	return issues
}

func containsValue(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
