package billingmonth

import (
	"errors"
	"testing"
	"time"
)

func TestParseAcceptsCanonicalForm(t *testing.T) {
	m, err := Parse("03-2026")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Year != 2026 || m.Month != time.March {
		t.Fatalf("unexpected value: %+v", m)
	}
	if m.String() != "03-2026" {
		t.Fatalf("round trip: %s", m.String())
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{
		"",
		"3-2026",
		"13-2026",
		"00-2026",
		"2026-03",
		"03/2026",
		"03-26",
		"03-2026 ",
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("expected ErrInvalidMonth for %q, got %v", raw, err)
		}
	}
}

func TestCalendarOrdering(t *testing.T) {
	dec2025, _ := Parse("12-2025")
	mar2026, _ := Parse("03-2026")
	apr2026, _ := Parse("04-2026")

	// Lexical string comparison would rank "12-2025" after "03-2026".
	if !dec2025.Before(mar2026) {
		t.Fatal("12-2025 must sort before 03-2026")
	}
	if !mar2026.Before(apr2026) {
		t.Fatal("03-2026 must sort before 04-2026")
	}
	if mar2026.Before(mar2026) {
		t.Fatal("a month is not before itself")
	}
	if mar2026.Compare(mar2026) != 0 {
		t.Fatal("equal months must compare equal")
	}
}

func TestDays(t *testing.T) {
	cases := map[string]int{
		"02-2026": 28,
		"02-2024": 29,
		"04-2026": 30,
		"12-2025": 31,
	}
	for raw, want := range cases {
		m, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if got := m.Days(); got != want {
			t.Fatalf("%s: expected %d days, got %d", raw, want, got)
		}
	}
}
