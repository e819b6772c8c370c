package core

import (
	"fmt"
	"time"
)

// DateWindow bounds a query by timestamp. Nil endpoints mean unbounded.
type DateWindow struct {
	From *time.Time
	To   *time.Time
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// WindowForFilter maps the UI's named date filters onto a concrete window.
// "custom" requires from/to as YYYY-MM-DD. Unknown filters are rejected.
func WindowForFilter(filter string, now time.Time, from, to string) (DateWindow, error) {
	switch filter {
	case "", "all", "lifetime":
		return DateWindow{}, nil
	case "daily", "today":
		f, t := startOfDay(now), endOfDay(now)
		return DateWindow{From: &f, To: &t}, nil
	case "last7days":
		f, t := startOfDay(now.AddDate(0, 0, -6)), endOfDay(now)
		return DateWindow{From: &f, To: &t}, nil
	case "monthly":
		f := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		t := endOfDay(f.AddDate(0, 1, -1))
		return DateWindow{From: &f, To: &t}, nil
	case "yearly":
		f := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		t := endOfDay(time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location()))
		return DateWindow{From: &f, To: &t}, nil
	case "thisyear":
		f := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		t := endOfDay(now)
		return DateWindow{From: &f, To: &t}, nil
	case "custom":
		if from == "" || to == "" {
			return DateWindow{}, &ValidationError{Field: "filter", Reason: "custom filter requires from and to dates"}
		}
		f, err := time.ParseInLocation("2006-01-02", from, now.Location())
		if err != nil {
			return DateWindow{}, &ValidationError{Field: "from", Reason: fmt.Sprintf("invalid date %q", from)}
		}
		t, err := time.ParseInLocation("2006-01-02", to, now.Location())
		if err != nil {
			return DateWindow{}, &ValidationError{Field: "to", Reason: fmt.Sprintf("invalid date %q", to)}
		}
		f, t = startOfDay(f), endOfDay(t)
		return DateWindow{From: &f, To: &t}, nil
	default:
		return DateWindow{}, &ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown filter %q", filter)}
	}
}
