package services

import "time"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// Today is the current calendar day in location as YYYY-MM-DD.
func Today(now time.Time, location *time.Location) string {
	return DateAtLocation(now, location).Format("2006-01-02")
}
