package core

// sort.go implements typed, stable multi-column ordering for browsing
// persisted bills. The engine never mutates its input; it returns a sorted
// copy so the fetched page stays a faithful snapshot of server output.

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortType selects the comparator used for a column.
type SortType int

const (
	SortString SortType = iota
	SortNumber
	SortDate
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Column describes one sortable column. Fields lists the record fields the
// sort key is built from; when empty, the key is the field named by Key.
// Multiple fields mean a composite key: for dates each field is a tie-break
// level (a service period sorts by start, then end), for strings the values
// are space-joined (a location sorts by "city state zip" as one string).
type Column struct {
	Key        string
	Type       SortType
	DefaultDir string
	Fields     []string
}

func (c Column) fields() []string {
	if len(c.Fields) > 0 {
		return c.Fields
	}
	return []string{c.Key}
}

// SortState is the active sort column and direction.
type SortState struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

// Toggle applies a header click to the current sort state: clicking the
// active column flips its direction, clicking any other column activates it
// with that column's configured default direction.
func Toggle(columns []Column, current SortState, key string) SortState {
	if current.Key == key {
		if current.Dir == Asc {
			return SortState{Key: key, Dir: Desc}
		}
		return SortState{Key: key, Dir: Asc}
	}

	for _, col := range columns {
		if col.Key == key {
			dir := col.DefaultDir
			if dir != Desc {
				dir = Asc
			}
			return SortState{Key: key, Dir: dir}
		}
	}
	return SortState{Key: key, Dir: Asc}
}

// ColumnByKey looks up a column definition.
func ColumnByKey(columns []Column, key string) (Column, bool) {
	for _, col := range columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// SortRecords returns the records ordered by the given column and
// direction. The ordering is stable: the comparators return exactly 0 for
// equal keys, and the underlying sort preserves input order on 0.
func SortRecords(records []Record, col Column, dir string) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)

	sign := 1
	if dir == Desc {
		sign = -1
	}

	var cmp func(a, b Record) int
	switch col.Type {
	case SortNumber:
		cmp = numberComparator(col, dir, sign)
	case SortDate:
		cmp = dateComparator(col, sign)
	default:
		cmp = stringComparator(col, sign)
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

// numberComparator parses cells as numbers. Missing or non-numeric values
// take an infinite sentinel chosen per direction so they land at the end of
// the visual list whether sorting ascending or descending.
func numberComparator(col Column, dir string, sign int) func(a, b Record) int {
	field := col.fields()[0]
	sentinel := math.Inf(1)
	if dir == Desc {
		sentinel = math.Inf(-1)
	}

	value := func(rec Record) float64 {
		d, ok := ParseNumber(rec[field])
		if !ok {
			return sentinel
		}
		f, _ := d.Float64()
		return f
	}

	return func(a, b Record) int {
		av, bv := value(a), value(b)
		switch {
		case av < bv:
			return sign * -1
		case av > bv:
			return sign
		default:
			return 0
		}
	}
}

// dateComparator parses each key field as a date, falling through to the
// next field on ties. Unparsable or absent dates sort last regardless of
// direction: the missing side compares greater unconditionally, and two
// missing values compare equal.
func dateComparator(col Column, sign int) func(a, b Record) int {
	fields := col.fields()

	return func(a, b Record) int {
		for _, field := range fields {
			at, aok := ParseDate(a[field])
			bt, bok := ParseDate(b[field])

			switch {
			case !aok && !bok:
				continue
			case !aok:
				return 1
			case !bok:
				return -1
			}

			if c := at.Compare(bt); c != 0 {
				return sign * c
			}
		}
		return 0
	}
}

// stringComparator collates space-joined key fields case-insensitively
// using English collation rules.
func stringComparator(col Column, sign int) func(a, b Record) int {
	fields := col.fields()
	coll := collate.New(language.English, collate.IgnoreCase)

	key := func(rec Record) string {
		parts := make([]string, len(fields))
		for i, field := range fields {
			parts[i] = rec[field]
		}
		return strings.TrimSpace(strings.Join(parts, " "))
	}

	return func(a, b Record) int {
		return sign * coll.CompareString(key(a), key(b))
	}
}
