package i18n

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var weekdayLongNames = map[string][]string{
	LangEN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	LangID: {"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"},
}

var monthLongNames = map[string][]string{
	LangEN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	LangID: {"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"},
}

// FormatLongDate renders a YYYY-MM-DD value as "Weekday, Day Month Year".
// Anything that does not parse is returned unchanged.
func FormatLongDate(lang string, raw string) string {
	value, err := time.Parse(dayLayout, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return FormatLongTime(lang, value)
}

func FormatLongTime(lang string, value time.Time) string {
	key := normalizeLanguageTag(lang)
	weekdays, weekdaysOK := weekdayLongNames[key]
	months, monthsOK := monthLongNames[key]
	if !weekdaysOK || !monthsOK {
		weekdays = weekdayLongNames[LangID]
		months = monthLongNames[LangID]
	}
	return fmt.Sprintf("%s, %d %s %d", weekdays[int(value.Weekday())], value.Day(), months[int(value.Month())-1], value.Year())
}
