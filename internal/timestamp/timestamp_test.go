package timestamp

import (
	"errors"
	"testing"
	"time"
)

func TestFromUTCConvertsToLocalZone(t *testing.T) {
	n := New(time.FixedZone("plus2", 2*3600))

	got, err := n.FromUTC("2021-05-01T10:00:00")
	if err != nil {
		t.Fatalf("FromUTC: %v", err)
	}
	if got != "2021:05:01 12:00:00" {
		t.Fatalf("got %q, want 2021:05:01 12:00:00", got)
	}
}

func TestFromUTCInUTCZonePassesWallClockThrough(t *testing.T) {
	n := New(time.UTC)

	got, err := n.FromUTC("2021-05-01T10:00:00")
	if err != nil {
		t.Fatalf("FromUTC: %v", err)
	}
	if got != "2021:05:01 10:00:00" {
		t.Fatalf("got %q, want 2021:05:01 10:00:00", got)
	}
}

func TestFromUTCIgnoresSourceOffset(t *testing.T) {
	// wall clock is reinterpreted as UTC even when an offset is present,
	// matching how previously exported data was processed
	n := New(time.UTC)

	got, err := n.FromUTC("2021-05-01T10:00:00+05:00")
	if err != nil {
		t.Fatalf("FromUTC: %v", err)
	}
	if got != "2021:05:01 10:00:00" {
		t.Fatalf("got %q, want 2021:05:01 10:00:00", got)
	}
}

func TestFromUTCIsDeterministic(t *testing.T) {
	n := New(time.FixedZone("minus7", -7*3600))

	first, err := n.FromUTC("2020-12-31T23:59:59")
	if err != nil {
		t.Fatalf("FromUTC: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := n.FromUTC("2020-12-31T23:59:59")
		if err != nil {
			t.Fatalf("FromUTC repeat: %v", err)
		}
		if again != first {
			t.Fatalf("non-deterministic: %q then %q", first, again)
		}
	}
}

func TestFromUTCMalformed(t *testing.T) {
	n := New(time.UTC)

	_, err := n.FromUTC("yesterday-ish")
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Raw != "yesterday-ish" {
		t.Fatalf("ParseError.Raw = %q", perr.Raw)
	}
}

func TestFromCSVDateFixesNoon(t *testing.T) {
	n := New(time.FixedZone("plus9", 9*3600))

	got, err := n.FromCSVDate("01/02/2020")
	if err != nil {
		t.Fatalf("FromCSVDate: %v", err)
	}
	// no zone conversion for scanned dates
	if got != "2020:01:02 12:00:00" {
		t.Fatalf("got %q, want 2020:01:02 12:00:00", got)
	}
}

func TestFromCSVDateMalformed(t *testing.T) {
	n := New(time.UTC)

	if _, err := n.FromCSVDate("2020-01-02"); err == nil {
		t.Fatal("expected error for non-MM/DD/YYYY input")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("1987:06:05 04:03:02"); err != nil {
		t.Fatalf("Validate rejected target-format value: %v", err)
	}
	if err := Validate("1987-06-05 04:03:02"); err == nil {
		t.Fatal("Validate accepted dash-delimited date")
	}
}
