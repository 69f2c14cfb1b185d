package report

import (
	"time"

	"golang.org/x/text/language"
)

// weekday names per supported locale, indexed by time.Weekday (Sunday = 0)
var weekdayTables = [][7]string{
	{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"},
	{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Portuguese,
	language.Spanish,
})

// Formatter renders dates, times and weekday names for report rows. Weekday
// localization can never fail: unknown or malformed locales fall back to
// English names.
type Formatter struct {
	loc      *time.Location
	weekdays [7]string
}

// NewFormatter builds a formatter for the given BCP 47 locale and location.
// A nil location falls back to the host zone.
func NewFormatter(locale string, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	_, index, _ := localeMatcher.Match(tag)

	return &Formatter{
		loc:      loc,
		weekdays: weekdayTables[index],
	}
}

// Date renders DD/MM/YYYY, or "-" when absent
func (f *Formatter) Date(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(f.loc).Format("02/01/2006")
}

// Weekday renders the localized weekday name, or "-" when absent
func (f *Formatter) Weekday(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return f.weekdays[int(t.In(f.loc).Weekday())]
}

// Time renders HH:MM:SS, or "-" when absent
func (f *Formatter) Time(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(f.loc).Format("15:04:05")
}

// Location exposes the formatter's zone for window boundary computation
func (f *Formatter) Location() *time.Location {
	return f.loc
}
