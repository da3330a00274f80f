package repository

import "time"

// dbTimeLayout is the timestamp format stored in the database.  The
// millisecond suffix keeps lexicographic order equal to chronological
// order, which the sync cursor comparison relies on.
const dbTimeLayout = "2006-01-02 15:04:05.000"

// dbDateLayout is the date-only format used for shows.show_date.
const dbDateLayout = "2006-01-02"

// dbNow returns the current UTC time in the stored timestamp format.
func dbNow() string {
	return time.Now().UTC().Format(dbTimeLayout)
}

// dbTime formats an arbitrary time in the stored timestamp format.
func dbTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// dbToday returns today's date in the stored date format.
func dbToday() string {
	return time.Now().UTC().Format(dbDateLayout)
}
