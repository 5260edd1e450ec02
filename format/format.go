// Package format turns amounts and dates into locale-aware display strings.
//
// Number grouping and decimal separators come from the CLDR data shipped
// with golang.org/x/text. Dates use a small per-language layout table:
// x/text has no date formatting.
package format

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateFormatter renders an absolute calendar date.
type DateFormatter interface {
	FormatDate(t time.Time, locale string) string
}

// Formatter is the display capability the statement builder depends on.
type Formatter interface {
	DateFormatter
	FormatCurrency(amount decimal.Decimal, currencyCode, locale string) string
	FormatDateTime(t time.Time, locale string) string
	RelativeDate(reference, target time.Time, locale string) string
}

const day = 24 * time.Hour

// DaysBetween returns the whole number of days between a and b, rounded
// to the nearest day, ignoring direction.
func DaysBetween(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Round(float64(diff) / float64(day)))
}

// RelativeDate describes target relative to reference: "Today",
// "Yesterday", "N days ago" up to a week, else the absolute date.
func RelativeDate(reference, target time.Time, locale string, f DateFormatter) string {
	switch n := DaysBetween(reference, target); {
	case n == 0:
		return "Today"
	case n == 1:
		return "Yesterday"
	case n <= 7:
		return fmt.Sprintf("%d days ago", n)
	default:
		return f.FormatDate(target, locale)
	}
}

type localeInfo struct {
	tag          language.Tag
	dateLayout   string
	dateTime     string
	symbolSuffix bool
	// minGrouping is the CLDR minimumGroupingDigits: the integer part is
	// grouped only when it has at least 3+minGrouping digits.
	minGrouping int
}

// The first entry is the fallback for unknown locales.
var locales = []localeInfo{
	{language.AmericanEnglish, "1/2/2006", "1/2/2006, 3:04 PM", false, 1},
	{language.BritishEnglish, "02/01/2006", "02/01/2006, 15:04", false, 1},
	{language.EuropeanPortuguese, "02/01/2006", "02/01/2006, 15:04", true, 2},
	{language.BrazilianPortuguese, "02/01/2006", "02/01/2006, 15:04", false, 1},
	{language.German, "2.1.2006", "2.1.2006, 15:04", true, 1},
	{language.French, "02/01/2006", "02/01/2006 15:04", true, 1},
	{language.Spanish, "2/1/2006", "2/1/2006, 15:04", true, 2},
	{language.Italian, "2/1/2006", "2/1/2006, 15:04", true, 1},
	{language.Japanese, "2006/1/2", "2006/1/2 15:04", false, 1},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"INR": "₹",
	"CHF": "CHF",
}

func lookup(locale string) localeInfo {
	tag, err := language.Parse(locale)
	if err != nil {
		return locales[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return locales[0]
	}
	return locales[idx]
}

// ValidLocale reports whether s is a well-formed BCP 47 tag.
func ValidLocale(s string) bool {
	_, err := language.Parse(s)
	return err == nil
}

// ValidCurrency reports whether s is a known ISO 4217 code.
func ValidCurrency(s string) bool {
	_, err := currency.ParseISO(strings.ToUpper(s))
	return err == nil
}

func symbolFor(code string) string {
	code = strings.ToUpper(code)
	if s, ok := symbols[code]; ok {
		return s
	}
	if u, err := currency.ParseISO(code); err == nil {
		return u.String()
	}
	return code
}

// Locale is the production Formatter.
type Locale struct{}

// NewLocale returns the x/text backed formatter.
func NewLocale() *Locale {
	return &Locale{}
}

// FormatCurrency renders amount with two fraction digits, the locale's
// separators and the currency symbol on the side the locale expects.
func (Locale) FormatCurrency(amount decimal.Decimal, currencyCode, locale string) string {
	info := lookup(locale)
	group, point := separators(info.tag)

	rounded := amount.Round(2)
	digits := groupDigits(rounded.Abs().StringFixed(2), group, point, info.minGrouping)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	sym := symbolFor(currencyCode)
	if info.symbolSuffix {
		return sign + digits + " " + sym
	}
	return sign + sym + digits
}

var separatorCache sync.Map

// separators returns the CLDR group and decimal separators of tag, read
// back from x/text's rendering of a sample number.
func separators(tag language.Tag) (group, point string) {
	if v, ok := separatorCache.Load(tag); ok {
		seps := v.([2]string)
		return seps[0], seps[1]
	}
	sample := message.NewPrinter(tag).Sprintf("%v", number.Decimal(1234567.89, number.Scale(2)))
	group, point = ",", "."
	if rest, ok := strings.CutSuffix(sample, "89"); ok {
		if i := strings.LastIndex(rest, "567"); i >= 0 {
			point = rest[i+3:]
			head := strings.TrimPrefix(rest[:i], "1")
			if j := strings.Index(head, "234"); j >= 0 {
				group = head[:j]
			}
		}
	}
	separatorCache.Store(tag, [2]string{group, point})
	return group, point
}

// groupDigits regroups a plain "1234567.89" string. It works on the
// decimal text so no precision is lost on large amounts.
func groupDigits(plain, group, point string, minGrouping int) string {
	intPart, frac, _ := strings.Cut(plain, ".")
	if len(intPart) >= 3+minGrouping {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead == 0 {
			lead = 3
		}
		b.WriteString(intPart[:lead])
		for i := lead; i < len(intPart); i += 3 {
			b.WriteString(group)
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	if frac == "" {
		return intPart
	}
	return intPart + point + frac
}

func (Locale) FormatDate(t time.Time, locale string) string {
	return t.Format(lookup(locale).dateLayout)
}

func (Locale) FormatDateTime(t time.Time, locale string) string {
	return t.Format(lookup(locale).dateTime)
}

func (l Locale) RelativeDate(reference, target time.Time, locale string) string {
	return RelativeDate(reference, target, locale, l)
}
