package core

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"120", "120", true},
		{"12.5", "12.5", true},
		{"-3.2", "-3.2", true},
		{"  42  ", "42", true},
		{"$450.32", "450.32", true},
		{"1,234,567.89", "1234567.89", true},
		{"$ 1,000", "1000", true},
		{"", "", false},
		{"   ", "", false},
		{"12.5x", "", false},
		{"n/a", "", false},
		{"1.2.3", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := ParseNumber(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && d.String() != tt.want {
				t.Errorf("value = %s, want %s", d, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{"2024/01/15", "2024-01-15", true},
		{"1/15/2024", "2024-01-15", true},
		{"01/15/2024", "2024-01-15", true},
		{"2024-01-15 10:30:00", "2024-01-15", true},
		{"2024-01-15T10:30:00Z", "2024-01-15", true},
		{"", "", false},
		{"not a date", "", false},
		{"2024-13-40", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Format(time.DateOnly) != tt.want {
				t.Errorf("date = %s, want %s", got.Format(time.DateOnly), tt.want)
			}
		})
	}
}
