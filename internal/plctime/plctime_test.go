package plctime

import (
	"errors"
	"testing"
)

func TestNormalize_JSTtoUTC(t *testing.T) {
	n := NewNormalizer(9)

	got, err := n.Normalize("20240221 16:09:35.603000")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := "2024-02-21T07:09:35.603000Z"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNormalize_ZeroOffset(t *testing.T) {
	n := NewNormalizer(0)

	got, err := n.Normalize("20240101 00:00:00.000000")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != "2024-01-01T00:00:00.000000Z" {
		t.Errorf("unexpected result: %s", got)
	}
}

func TestNormalize_DayRollover(t *testing.T) {
	n := NewNormalizer(9)

	// 08:00 JST is the previous day in UTC
	got, err := n.Normalize("20240301 08:59:59.999999")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != "2024-02-29T23:59:59.999999Z" {
		t.Errorf("unexpected result: %s", got)
	}
}

func TestNormalize_Malformed(t *testing.T) {
	n := NewNormalizer(9)

	inputs := []string{
		"",
		"2024-02-21T16:09:35.603000Z", // already ISO
		"20240221 16:09:35",           // missing fractional seconds
		"20240221 16:09:35.603",       // fractional field not fixed width
		"not a timestamp",
	}

	for _, in := range inputs {
		if _, err := n.Normalize(in); !errors.Is(err, ErrMalformedTimestamp) {
			t.Errorf("input %q: expected ErrMalformedTimestamp, got %v", in, err)
		}
	}
}
