package store

// metrics.go produces the dashboard aggregates: portfolio totals, a
// per-utility breakdown, and a monthly cost/consumption series.

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Totals holds the portfolio-wide aggregates.
type Totals struct {
	Cost        float64 `json:"cost"`
	Consumption float64 `json:"consumption"`
	AverageBill float64 `json:"average_bill"`
	LastUpdated string  `json:"last_updated,omitempty"`
}

// TypeBreakdown is the total spend and consumption for one bill type.
type TypeBreakdown struct {
	BillType         string  `json:"bill_type"`
	TotalCost        float64 `json:"total_cost"`
	TotalConsumption float64 `json:"total_consumption"`
}

// Metrics is the dashboard snapshot.
type Metrics struct {
	Totals Totals          `json:"totals"`
	ByType []TypeBreakdown `json:"by_type"`
}

// MonthPoint is one month of the trends series.
type MonthPoint struct {
	Month            string  `json:"month"`
	TotalCost        float64 `json:"total_cost"`
	TotalConsumption float64 `json:"total_consumption"`
}

// Metrics returns the dashboard snapshot: overall totals plus a breakdown
// by bill type.
func (s *Store) Metrics(ctx context.Context) (*Metrics, error) {
	var (
		totalCost, totalConsumption, avgBill pgtype.Float8
		lastDate                             pgtype.Date
	)
	err := s.db.QueryRow(ctx, `
		SELECT SUM(cost)::float8, SUM(consumption)::float8, AVG(cost)::float8, MAX(bill_date)
		FROM bills`,
	).Scan(&totalCost, &totalConsumption, &avgBill, &lastDate)
	if err != nil {
		return nil, fmt.Errorf("metrics totals: %w", err)
	}

	m := &Metrics{
		Totals: Totals{
			Cost:        totalCost.Float64,
			Consumption: totalConsumption.Float64,
			AverageBill: avgBill.Float64,
			LastUpdated: dateString(lastDate),
		},
		ByType: []TypeBreakdown{},
	}

	rows, err := s.db.Query(ctx, `
		SELECT bill_type, COALESCE(SUM(cost), 0)::float8, COALESCE(SUM(consumption), 0)::float8
		FROM bills
		GROUP BY bill_type
		ORDER BY bill_type`)
	if err != nil {
		return nil, fmt.Errorf("metrics breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry TypeBreakdown
		if err := rows.Scan(&entry.BillType, &entry.TotalCost, &entry.TotalConsumption); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		m.ByType = append(m.ByType, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("metrics breakdown: %w", err)
	}

	return m, nil
}

// MonthlyTrends returns cost and consumption summed per bill-date month,
// oldest first. Bills without a bill date are excluded.
func (s *Store) MonthlyTrends(ctx context.Context) ([]MonthPoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date_trunc('month', bill_date)::date,
		       COALESCE(SUM(cost), 0)::float8,
		       COALESCE(SUM(consumption), 0)::float8
		FROM bills
		WHERE bill_date IS NOT NULL
		GROUP BY 1
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}
	defer rows.Close()

	series := []MonthPoint{}
	for rows.Next() {
		var (
			month pgtype.Date
			point MonthPoint
		)
		if err := rows.Scan(&month, &point.TotalCost, &point.TotalConsumption); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		point.Month = dateString(month)
		series = append(series, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}
	return series, nil
}
