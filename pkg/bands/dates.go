package bands

import (
	"strings"
	"time"
)

// strftime directives and their Go layout equivalents
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'B': "January",
	'b': "Jan",
	'h': "Jan",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'A': "Monday",
	'a': "Mon",
	'Z': "MST",
	'z': "-0700",
	'f': "000000",
	'F': "2006-01-02",
	'T': "15:04:05",
	'D': "01/02/06",
	'R': "15:04",
}

// translateStrftime converts a strftime pattern (%Y-%m-%d) to a Go layout.
// Unknown directives are kept verbatim.
func translateStrftime(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i == len(pattern)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		next := pattern[i]
		if next == '%' {
			b.WriteByte('%')
			continue
		}
		if layout, ok := strftimeDirectives[next]; ok {
			b.WriteString(layout)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(next)
	}
	return b.String()
}

// FormatDate formats t with a strftime style pattern such as "%d/%m/%Y"
func FormatDate(t time.Time, pattern string) string {
	return FormatDateLocale(t, pattern, "")
}

// FormatDateLocale formats t and translates month and week day names to locale
func FormatDateLocale(t time.Time, pattern, locale string) string {
	result := t.Format(translateStrftime(pattern))

	if locale != "" && locale != "en" {
		result = localizeNames(result, t, locale)
	}
	return result
}

// localizeNames swaps English month and week day names in formatted for
// those of locale. Unsupported locales are returned unchanged.
func localizeNames(formatted string, t time.Time, locale string) string {
	// "de-DE" and "de_DE" both select "de"
	lang := locale
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		lang = locale[:idx]
	}

	names := namesFor(lang)
	if names == nil {
		return formatted
	}

	// long names first, the short names are prefixes of them
	monthName := t.Format("January")
	if translated, ok := names.months[monthName]; ok && strings.Contains(formatted, monthName) {
		formatted = strings.ReplaceAll(formatted, monthName, translated)
	} else if translated, ok := names.monthsShort[t.Format("Jan")]; ok {
		formatted = strings.ReplaceAll(formatted, t.Format("Jan"), translated)
	}

	weekdayName := t.Format("Monday")
	if translated, ok := names.weekdays[weekdayName]; ok && strings.Contains(formatted, weekdayName) {
		formatted = strings.ReplaceAll(formatted, weekdayName, translated)
	} else if translated, ok := names.weekdaysShort[t.Format("Mon")]; ok {
		formatted = strings.ReplaceAll(formatted, t.Format("Mon"), translated)
	}

	return formatted
}

type localeNames struct {
	months        map[string]string
	monthsShort   map[string]string
	weekdays      map[string]string
	weekdaysShort map[string]string
}

func namesFor(lang string) *localeNames {
	switch lang {
	case "de":
		return &localeNames{
			months: map[string]string{
				"January": "Januar", "February": "Februar", "March": "März",
				"April": "April", "May": "Mai", "June": "Juni",
				"July": "Juli", "August": "August", "September": "September",
				"October": "Oktober", "November": "November", "December": "Dezember",
			},
			monthsShort: map[string]string{
				"Jan": "Jan", "Feb": "Feb", "Mar": "Mär",
				"Apr": "Apr", "May": "Mai", "Jun": "Jun",
				"Jul": "Jul", "Aug": "Aug", "Sep": "Sep",
				"Oct": "Okt", "Nov": "Nov", "Dec": "Dez",
			},
			weekdays: map[string]string{
				"Monday": "Montag", "Tuesday": "Dienstag", "Wednesday": "Mittwoch",
				"Thursday": "Donnerstag", "Friday": "Freitag",
				"Saturday": "Samstag", "Sunday": "Sonntag",
			},
			weekdaysShort: map[string]string{
				"Mon": "Mo", "Tue": "Di", "Wed": "Mi",
				"Thu": "Do", "Fri": "Fr", "Sat": "Sa", "Sun": "So",
			},
		}

	case "fr":
		return &localeNames{
			months: map[string]string{
				"January": "janvier", "February": "février", "March": "mars",
				"April": "avril", "May": "mai", "June": "juin",
				"July": "juillet", "August": "août", "September": "septembre",
				"October": "octobre", "November": "novembre", "December": "décembre",
			},
			monthsShort: map[string]string{
				"Jan": "jan", "Feb": "fév", "Mar": "mar",
				"Apr": "avr", "May": "mai", "Jun": "juin",
				"Jul": "juil", "Aug": "août", "Sep": "sep",
				"Oct": "oct", "Nov": "nov", "Dec": "déc",
			},
			weekdays: map[string]string{
				"Monday": "lundi", "Tuesday": "mardi", "Wednesday": "mercredi",
				"Thursday": "jeudi", "Friday": "vendredi",
				"Saturday": "samedi", "Sunday": "dimanche",
			},
			weekdaysShort: map[string]string{
				"Mon": "lun", "Tue": "mar", "Wed": "mer",
				"Thu": "jeu", "Fri": "ven", "Sat": "sam", "Sun": "dim",
			},
		}

	case "pt":
		return &localeNames{
			months: map[string]string{
				"January": "janeiro", "February": "fevereiro", "March": "março",
				"April": "abril", "May": "maio", "June": "junho",
				"July": "julho", "August": "agosto", "September": "setembro",
				"October": "outubro", "November": "novembro", "December": "dezembro",
			},
			monthsShort: map[string]string{
				"Jan": "jan", "Feb": "fev", "Mar": "mar",
				"Apr": "abr", "May": "mai", "Jun": "jun",
				"Jul": "jul", "Aug": "ago", "Sep": "set",
				"Oct": "out", "Nov": "nov", "Dec": "dez",
			},
			weekdays: map[string]string{
				"Monday": "segunda-feira", "Tuesday": "terça-feira", "Wednesday": "quarta-feira",
				"Thursday": "quinta-feira", "Friday": "sexta-feira",
				"Saturday": "sábado", "Sunday": "domingo",
			},
			weekdaysShort: map[string]string{
				"Mon": "seg", "Tue": "ter", "Wed": "qua",
				"Thu": "qui", "Fri": "sex", "Sat": "sáb", "Sun": "dom",
			},
		}

	case "es":
		return &localeNames{
			months: map[string]string{
				"January": "enero", "February": "febrero", "March": "marzo",
				"April": "abril", "May": "mayo", "June": "junio",
				"July": "julio", "August": "agosto", "September": "septiembre",
				"October": "octubre", "November": "noviembre", "December": "diciembre",
			},
			monthsShort: map[string]string{
				"Jan": "ene", "Feb": "feb", "Mar": "mar",
				"Apr": "abr", "May": "may", "Jun": "jun",
				"Jul": "jul", "Aug": "ago", "Sep": "sep",
				"Oct": "oct", "Nov": "nov", "Dec": "dic",
			},
			weekdays: map[string]string{
				"Monday": "lunes", "Tuesday": "martes", "Wednesday": "miércoles",
				"Thursday": "jueves", "Friday": "viernes",
				"Saturday": "sábado", "Sunday": "domingo",
			},
			weekdaysShort: map[string]string{
				"Mon": "lun", "Tue": "mar", "Wed": "mié",
				"Thu": "jue", "Fri": "vie", "Sat": "sáb", "Sun": "dom",
			},
		}

	default:
		return nil
	}
}
