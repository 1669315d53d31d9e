package services

import "time"

// Named range selectors accepted by the stats endpoints.
const (
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeLast7     = "last7"
	RangeLast30    = "last30"
	RangeLast90    = "last90"
	RangeThisWeek  = "thisWeek"
	RangeThisMonth = "thisMonth"
)

// DateWindow is a concrete [Start, End] pair bounding aggregation queries.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// StatsQuery selects a reporting window either by named range or by explicit
// from/to dates. Explicit dates win over the named range; with neither set
// the window defaults to the last 7 days.
type StatsQuery struct {
	Range string
	From  *time.Time
	To    *time.Time
}

// IsValidRange reports whether r is a known range selector.
func IsValidRange(r string) bool {
	switch r {
	case RangeToday, RangeYesterday, RangeLast7, RangeLast30, RangeLast90, RangeThisWeek, RangeThisMonth:
		return true
	}
	return false
}

// ResolveDateWindow computes the concrete window for a stats query. The
// reference time is passed in explicitly so window math is deterministic;
// callers supply their clock's now. Explicit "to" dates and all day-aligned
// range ends are snapped to the last instant of their calendar day
// (23:59:59.999) so a same-day range is inclusive.
func ResolveDateWindow(query StatsQuery, now time.Time) DateWindow {
	if query.From != nil && query.To != nil {
		return DateWindow{Start: *query.From, End: endOfDay(*query.To)}
	}

	switch query.Range {
	case RangeToday:
		return DateWindow{Start: startOfDay(now), End: now}
	case RangeYesterday:
		yesterday := now.AddDate(0, 0, -1)
		return DateWindow{Start: startOfDay(yesterday), End: endOfDay(yesterday)}
	case RangeLast30:
		return DateWindow{Start: startOfDay(now.AddDate(0, 0, -30)), End: endOfDay(now)}
	case RangeLast90:
		return DateWindow{Start: startOfDay(now.AddDate(0, 0, -90)), End: endOfDay(now)}
	case RangeThisWeek:
		// ISO week: Monday starts the week, Sunday counts as day 7.
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := now.AddDate(0, 0, -(weekday - 1))
		return DateWindow{Start: startOfDay(monday), End: endOfDay(now)}
	case RangeThisMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateWindow{Start: firstOfMonth, End: endOfDay(now)}
	default:
		// RangeLast7, and the fallback when nothing was selected.
		return DateWindow{Start: startOfDay(now.AddDate(0, 0, -7)), End: endOfDay(now)}
	}
}

// Previous returns the window of equal duration immediately before w, ending
// one millisecond before w starts.
func (w DateWindow) Previous() DateWindow {
	duration := w.End.Sub(w.Start)
	return DateWindow{
		Start: w.Start.Add(-duration),
		End:   w.Start.Add(-time.Millisecond),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
