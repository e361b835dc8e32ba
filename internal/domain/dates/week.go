package dates

// WeekLength is the number of bookable days in a week (Monday to Friday).
const WeekLength = 5

// DayNames lists the bookable weekday names in display order.
var DayNames = [WeekLength]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Window describes the Monday-Friday bounds of one week.
type Window struct {
	Start DateKey // always a Monday
	End   DateKey // always the Friday four days later
	Label string  // e.g. "02 Jun - 06 Jun"
}

// Days returns the five weekday DateKeys of the window in order.
// PRE: w was produced by WeekWindow
// POST: returns Start, Start+1 .. Start+4
func (w Window) Days() []DateKey {
	days := make([]DateKey, 0, WeekLength)
	for i := 0; i < WeekLength; i++ {
		days = append(days, w.Start.AddDays(i))
	}
	return days
}

// Contains reports whether d falls on one of the window's five weekdays.
func (w Window) Contains(d DateKey) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// WeekWindow computes the Monday-Friday window of the week containing anchor.
// A Sunday anchor belongs to the following week: the window starts on the
// Monday immediately after it.
// PRE: anchor is a valid DateKey
// POST: Start is a Monday, End = Start+4, Label is "DD Mon - DD Mon" with
// fixed English month abbreviations
func WeekWindow(anchor DateKey) Window {
	// Offsets relative to Sunday=0: Monday shifts 0, Saturday -5, Sunday +1.
	start := anchor.AddDays(1 - int(anchor.Weekday()))
	end := start.AddDays(WeekLength - 1)
	return Window{
		Start: start,
		End:   end,
		Label: formatShort(start) + " - " + formatShort(end),
	}
}

// formatShort renders a DateKey as "DD Mon", locale-independent.
func formatShort(d DateKey) string {
	return d.Time().Format("02 Jan")
}
