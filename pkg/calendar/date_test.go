package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseAndFormat(t *testing.T) {
	d, err := Parse("2025-06-01")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.String() != "2025-06-01" {
		t.Fatalf("String = %q", d.String())
	}
	if _, err := Parse("01/06/2025"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestJSON(t *testing.T) {
	var payload struct {
		Expiry *Date `json:"expiry_date"`
	}
	if err := json.Unmarshal([]byte(`{"expiry_date":"2025-01-01"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Expiry == nil || !payload.Expiry.Equal(NewDate(2025, time.January, 1)) {
		t.Fatalf("unexpected expiry %v", payload.Expiry)
	}

	out, _ := json.Marshal(payload)
	if string(out) != `{"expiry_date":"2025-01-01"}` {
		t.Fatalf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"expiry_date":"2025-13-40"}`), &payload); err == nil {
		t.Fatalf("expected error for impossible date")
	}
}

func TestScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan time: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("scanned %s", d)
	}
	if err := d.Scan([]byte("2024-03-01")); err != nil || d.String() != "2024-03-01" {
		t.Fatalf("Scan bytes: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}

func TestOrdering(t *testing.T) {
	a := NewDate(2025, time.January, 1)
	b := a.AddDays(151)
	if !a.Before(b) || !b.After(a) {
		t.Fatalf("ordering broken")
	}
	if b.String() != "2025-06-01" {
		t.Fatalf("AddDays = %s", b)
	}
}
