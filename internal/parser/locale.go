package parser

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale holds the month and weekday names of one language. It is passed
// explicitly to the date codec; nothing here touches process-wide state.
type Locale struct {
	tag         language.Tag
	months      [12]string
	shortMonths [12]string
	days        [7]string
	shortDays   [7]string
}

var englishLocale = &Locale{
	tag: language.English,
	months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	shortMonths: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	days:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	shortDays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
}

// Names as printed by glibc for fr_FR.
var frenchLocale = &Locale{
	tag: language.French,
	months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	shortMonths: [12]string{"janv.", "févr.", "mars", "avril", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc."},
	days:      [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	shortDays: [7]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."},
}

// locales is set in its own initializer so that it is ready before the
// registry, which resolves locales while building descriptors.
var locales = func() map[language.Base]*Locale {
	m := make(map[language.Base]*Locale)
	for _, l := range []*Locale{englishLocale, frenchLocale} {
		base, _ := l.tag.Base()
		m[base] = l
	}
	return m
}()

// LookupLocale resolves a POSIX locale name such as "fr_FR.UTF-8".
// "C" and "POSIX" resolve to English.
func LookupLocale(name string) (*Locale, error) {
	n := name
	if i := strings.IndexAny(n, ".@"); i >= 0 {
		n = n[:i]
	}
	if n == "" || n == "C" || n == "POSIX" {
		return englishLocale, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(n, "_", "-"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownLocale, name, err)
	}
	base, _ := tag.Base()
	loc, ok := locales[base]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, name)
	}
	return loc, nil
}

// toEnglish rewrites localized month and weekday names of s into the English
// names Go layouts understand. Words are matched whole and case-insensitively.
func (l *Locale) toEnglish(s string, longNames bool) string {
	if l == englishLocale {
		return s
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		if en, ok := l.lookup(w, longNames); ok {
			words[i] = en
		}
	}
	return strings.Join(words, " ")
}

func (l *Locale) lookup(word string, longNames bool) (string, bool) {
	type table struct {
		local   []string
		english []string
	}
	short := []table{
		{l.shortMonths[:], englishLocale.shortMonths[:]},
		{l.shortDays[:], englishLocale.shortDays[:]},
	}
	long := []table{
		{l.months[:], englishLocale.months[:]},
		{l.days[:], englishLocale.days[:]},
	}
	order := append(short, long...)
	if longNames {
		order = append(long, short...)
	}
	for _, t := range order {
		for i, name := range t.local {
			if strings.EqualFold(word, name) {
				return t.english[i], true
			}
		}
	}
	return "", false
}

// fromEnglish is the inverse of toEnglish for output produced by time.Format.
func (l *Locale) fromEnglish(s string) string {
	if l == englishLocale {
		return s
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		for j, name := range englishLocale.shortMonths {
			if w == name {
				words[i] = l.shortMonths[j]
			}
		}
		for j, name := range englishLocale.months {
			if w == name {
				words[i] = l.months[j]
			}
		}
		for j, name := range englishLocale.shortDays {
			if w == name {
				words[i] = l.shortDays[j]
			}
		}
		for j, name := range englishLocale.days {
			if w == name {
				words[i] = l.days[j]
			}
		}
	}
	return strings.Join(words, " ")
}
