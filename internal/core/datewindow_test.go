package core

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 14, 30, 0, 0, time.UTC)

func TestWindowForFilterLifetime(t *testing.T) {
	for _, filter := range []string{"", "all", "lifetime"} {
		w, err := WindowForFilter(filter, testNow, "", "")
		if err != nil {
			t.Fatalf("filter %q: %v", filter, err)
		}
		if w.From != nil || w.To != nil {
			t.Errorf("filter %q: expected unbounded window", filter)
		}
	}
}

func TestWindowForFilterToday(t *testing.T) {
	w, err := WindowForFilter("today", testNow, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if w.From.Day() != 15 || w.From.Hour() != 0 {
		t.Errorf("from = %v, want start of Mar 15", w.From)
	}
	if w.To.Day() != 15 || w.To.Hour() != 23 {
		t.Errorf("to = %v, want end of Mar 15", w.To)
	}
}

func TestWindowForFilterLast7Days(t *testing.T) {
	w, err := WindowForFilter("last7days", testNow, "", "")
	if err != nil {
		t.Fatal(err)
	}
	// Inclusive of today: 7 calendar days total.
	if w.From.Day() != 9 || w.From.Month() != time.March {
		t.Errorf("from = %v, want start of Mar 9", w.From)
	}
}

func TestWindowForFilterMonthly(t *testing.T) {
	w, err := WindowForFilter("monthly", testNow, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if w.From.Day() != 1 || w.From.Month() != time.March {
		t.Errorf("from = %v, want Mar 1", w.From)
	}
	if w.To.Day() != 31 || w.To.Month() != time.March {
		t.Errorf("to = %v, want Mar 31", w.To)
	}
}

func TestWindowForFilterCustom(t *testing.T) {
	w, err := WindowForFilter("custom", testNow, "2026-01-10", "2026-01-20")
	if err != nil {
		t.Fatal(err)
	}
	if w.From.Day() != 10 || w.To.Day() != 20 {
		t.Errorf("window %v..%v, want Jan 10..20", w.From, w.To)
	}

	if _, err := WindowForFilter("custom", testNow, "", ""); err == nil {
		t.Error("custom without bounds accepted")
	}
	if _, err := WindowForFilter("custom", testNow, "not-a-date", "2026-01-20"); err == nil {
		t.Error("malformed from date accepted")
	}
}

func TestWindowForFilterUnknown(t *testing.T) {
	if _, err := WindowForFilter("fortnightly", testNow, "", ""); err == nil {
		t.Error("unknown filter accepted")
	}
}
