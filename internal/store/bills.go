package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/Sustained-Sync-API/cs4850/internal/core"
)

// billParams is one upload row converted to storage types.
type billParams struct {
	BillID       int64
	BillType     string
	BillDate     pgtype.Date
	ServiceStart pgtype.Date
	ServiceEnd   pgtype.Date
	Units        pgtype.Text
	Consumption  pgtype.Numeric
	Cost         pgtype.Numeric
	Provider     pgtype.Text
	City         pgtype.Text
	State        pgtype.Text
	Zip          pgtype.Text
}

const upsertBillSQL = `
INSERT INTO bills (
	bill_id, bill_type, bill_date, service_start, service_end,
	units_of_measure, consumption, cost, provider, city, state, zip,
	file_source, timestamp_upload
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (bill_id) DO UPDATE SET
	bill_type        = EXCLUDED.bill_type,
	bill_date        = EXCLUDED.bill_date,
	service_start    = EXCLUDED.service_start,
	service_end      = EXCLUDED.service_end,
	units_of_measure = EXCLUDED.units_of_measure,
	consumption      = EXCLUDED.consumption,
	cost             = EXCLUDED.cost,
	provider         = EXCLUDED.provider,
	city             = EXCLUDED.city,
	state            = EXCLUDED.state,
	zip              = EXCLUDED.zip,
	file_source      = EXCLUDED.file_source,
	timestamp_upload = EXCLUDED.timestamp_upload
RETURNING (xmax = 0) AS inserted`

// UpsertBills stores a batch of reviewed records keyed on bill_id,
// updating rows that already exist. Rows whose values cannot be converted
// for storage are skipped and reported with their source-file row number;
// a database failure aborts the whole batch.
func (s *Store) UpsertBills(ctx context.Context, records []core.Record, fileSource string) (inserted, updated int, rowErrs []core.Issue, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	for idx, rec := range records {
		row := idx + 2

		params, convErr := convertBill(rec)
		if convErr != nil {
			rowErrs = append(rowErrs, core.Issue{Row: row, Message: convErr.Error()})
			continue
		}

		var wasInsert bool
		err = tx.QueryRow(ctx, upsertBillSQL,
			params.BillID, params.BillType, params.BillDate,
			params.ServiceStart, params.ServiceEnd, params.Units,
			params.Consumption, params.Cost, params.Provider,
			params.City, params.State, params.Zip,
			toText(fileSource), now,
		).Scan(&wasInsert)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("upsert bill %d: %w", params.BillID, err)
		}

		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, 0, nil, fmt.Errorf("commit: %w", err)
	}
	return inserted, updated, rowErrs, nil
}

// convertBill turns one string-valued record into storage types, enforcing
// what the database schema needs: an integer bill_id, a known bill type and
// unit, parseable dates, and numeric amounts.
func convertBill(rec core.Record) (billParams, error) {
	var p billParams

	id, ok := core.ParseNumber(rec["bill_id"])
	if !ok || !id.IsInteger() {
		return p, fmt.Errorf("bill_id must be an integer")
	}
	p.BillID = id.IntPart()

	p.BillType = strings.TrimSpace(rec["bill_type"])
	if !contains(billTypeChoices, p.BillType) {
		return p, fmt.Errorf("bill_type must be one of: %s", strings.Join(billTypeChoices, ", "))
	}

	units := strings.TrimSpace(rec["units_of_measure"])
	if units != "" && !contains(unitChoices, units) {
		return p, fmt.Errorf("units_of_measure must be one of: %s", strings.Join(unitChoices, ", "))
	}
	p.Units = toText(units)

	var err error
	if p.BillDate, err = toDate(rec["bill_date"], "bill_date"); err != nil {
		return p, err
	}
	if p.ServiceStart, err = toDate(rec["service_start"], "service_start"); err != nil {
		return p, err
	}
	if p.ServiceEnd, err = toDate(rec["service_end"], "service_end"); err != nil {
		return p, err
	}

	if p.Consumption, err = toNumeric(rec["consumption"], "consumption"); err != nil {
		return p, err
	}
	if p.Cost, err = toNumeric(rec["cost"], "cost"); err != nil {
		return p, err
	}

	p.Provider = toText(rec["provider"])
	p.City = toText(rec["city"])
	p.State = toText(rec["state"])
	p.Zip = toText(rec["zip"])

	return p, nil
}

// Mirrors of schema.BillTypes / schema.Units; kept local so the store does
// not import the grid-facing schema package.
var (
	billTypeChoices = []string{"Power", "Gas", "Water"}
	unitChoices     = []string{"kWh", "therms", "CCF"}
)

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func toText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toDate(s, field string) (pgtype.Date, error) {
	if strings.TrimSpace(s) == "" {
		return pgtype.Date{}, nil
	}
	t, ok := core.ParseDate(s)
	if !ok {
		return pgtype.Date{}, fmt.Errorf("%s must be a date (YYYY-MM-DD)", field)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func toNumeric(s, field string) (pgtype.Numeric, error) {
	if strings.TrimSpace(s) == "" {
		return pgtype.Numeric{}, nil
	}
	d, ok := core.ParseNumber(s)
	if !ok {
		return pgtype.Numeric{}, fmt.Errorf("%s must be numeric", field)
	}
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("%s must be numeric", field)
	}
	return n, nil
}

const listBillsSQL = `
SELECT bill_id, bill_type, bill_date, service_start, service_end,
       units_of_measure, consumption, cost, provider, city, state, zip,
       timestamp_upload
FROM bills
ORDER BY bill_date DESC NULLS LAST, bill_id`

// ListBills returns every stored bill as a string-valued record in the
// shape the browsing layer expects: dates as YYYY-MM-DD, amounts as plain
// decimals, NULLs as empty strings. Rows come back in the table's default
// order (newest bill date first); the caller applies any user sort.
func (s *Store) ListBills(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.Query(ctx, listBillsSQL)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			billID                          int64
			billType                        string
			billDate, svcStart, svcEnd      pgtype.Date
			units, provider, city, st, zipC pgtype.Text
			consumption, cost               pgtype.Numeric
			uploaded                        pgtype.Timestamptz
		)
		if err := rows.Scan(&billID, &billType, &billDate, &svcStart, &svcEnd,
			&units, &consumption, &cost, &provider, &city, &st, &zipC, &uploaded); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}

		rec := core.Record{
			"bill_id":          fmt.Sprintf("%d", billID),
			"bill_type":        billType,
			"bill_date":        dateString(billDate),
			"service_start":    dateString(svcStart),
			"service_end":      dateString(svcEnd),
			"units_of_measure": textString(units),
			"consumption":      numericString(consumption),
			"cost":             numericString(cost),
			"provider":         textString(provider),
			"city":             textString(city),
			"state":            textString(st),
			"zip":              textString(zipC),
			"timestamp_upload": timestampString(uploaded),
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return records, nil
}

// CountBills returns the number of stored bills.
func (s *Store) CountBills(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM bills").Scan(&count); err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return count, nil
}

func dateString(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

func textString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func timestampString(t pgtype.Timestamptz) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}

func numericString(n pgtype.Numeric) string {
	if !n.Valid || n.NaN {
		return ""
	}
	return decimal.NewFromBigInt(n.Int, n.Exp).String()
}
