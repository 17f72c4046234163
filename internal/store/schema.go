package store

import (
	"context"
	"fmt"
)

// billsDDL creates the bills table. bill_id comes from the uploaded CSV and
// is kept as the primary key so re-uploads update rather than duplicate.
const billsDDL = `
CREATE TABLE IF NOT EXISTS bills (
	bill_id          bigint PRIMARY KEY,
	bill_type        text NOT NULL,
	bill_date        date,
	service_start    date,
	service_end      date,
	units_of_measure text,
	consumption      numeric(14,2),
	cost             numeric(12,2),
	provider         text,
	city             text,
	state            text,
	zip              text,
	file_source      text,
	timestamp_upload timestamptz
);
CREATE INDEX IF NOT EXISTS bills_bill_date_idx ON bills (bill_date);
CREATE INDEX IF NOT EXISTS bills_provider_idx ON bills (provider);
CREATE INDEX IF NOT EXISTS bills_city_state_idx ON bills (city, state);
`

// EnsureSchema creates the bills table and its indexes if they do not
// already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, billsDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
