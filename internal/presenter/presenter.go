// Package presenter renders dates, times, prices and guest-facing
// messages for one locale. Business packages hand it raw values.
package presenter

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = language.NewMatcher([]language.Tag{
	language.CanadianFrench,
	language.English,
})

type Presenter struct {
	tag     language.Tag
	french  bool
	loc     *time.Location
	printer *message.Printer
}

// New builds a presenter for locale (BCP 47, e.g. "fr-CA") rendering
// times in loc. Unsupported locales fall back to the closest match.
func New(locale string, loc *time.Location) (*Presenter, error) {
	requested, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	_, idx, conf := supported.Match(requested)
	french := idx == 0 && conf != language.No
	tag := language.English
	if french {
		tag = language.CanadianFrench
	}

	return &Presenter{
		tag:     tag,
		french:  french,
		loc:     loc,
		printer: message.NewPrinter(tag),
	}, nil
}

func (p *Presenter) Location() *time.Location {
	return p.loc
}

func (p *Presenter) Locale() string {
	return p.tag.String()
}

// Date renders the calendar date as YYYY-MM-DD
func (p *Presenter) Date(t time.Time) string {
	return t.In(p.loc).Format(time.DateOnly)
}

// Time renders the wall-clock time, "14 h 05" in French and "14:05" otherwise
func (p *Presenter) Time(t time.Time) string {
	t = t.In(p.loc)
	if p.french {
		return fmt.Sprintf("%02d h %02d", t.Hour(), t.Minute())
	}
	return t.Format("15:04")
}

// LongDate renders e.g. "samedi 4 juillet 2026" or "Saturday, July 4, 2026"
func (p *Presenter) LongDate(t time.Time) string {
	t = t.In(p.loc)
	if p.french {
		return fmt.Sprintf("%s %d %s %d", p.Weekday(t), t.Day(), p.MonthName(t.Month()), t.Year())
	}
	return t.Format("Monday, January 2, 2006")
}

func (p *Presenter) Weekday(t time.Time) string {
	wd := t.In(p.loc).Weekday()
	if p.french {
		return frenchWeekdays[wd]
	}
	return wd.String()
}

func (p *Presenter) MonthName(m time.Month) string {
	if p.french {
		return frenchMonths[m-1]
	}
	return m.String()
}

// Price renders integer cents as a localized dollar amount
func (p *Presenter) Price(cents int64) string {
	amount := p.printer.Sprintf("%.2f", float64(cents)/100)
	if p.french {
		return amount + " $"
	}
	return "$" + amount
}

// Amount renders integer cents as decimal currency units
func Amount(cents int64) float64 {
	return float64(cents) / 100
}

// Message translates a catalog key
func (p *Presenter) Message(key message.Reference, args ...interface{}) string {
	return p.printer.Sprintf(key, args...)
}

var frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
