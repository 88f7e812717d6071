package dateutil

import "time"

// CurrentWeek returns midnight of the Monday of the week containing t.
func CurrentWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	year, month, day := t.AddDate(0, 0, 1-weekday).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

// CurrentMonth returns midnight of the first day of the month containing t.
func CurrentMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func LastMonth(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}
