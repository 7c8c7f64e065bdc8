package holdings

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is displayed in place of missing or "not available" values.
const Placeholder = "-"

// ToDisplay returns the display form of a raw value: nil, nil pointers and NA
// tokens become Placeholder, everything else keeps its natural string form.
// Numbers are not grouped nor rounded, use FormatNumber for that.
func ToDisplay(v any) string {
	switch v := v.(type) {
	case nil:
		return Placeholder
	case Figure:
		return ToDisplay(v.Value)
	case *Figure:
		if v == nil {
			return Placeholder
		}
		return ToDisplay(v.Value)
	case string:
		if IsNA(v) {
			return Placeholder
		}
		return v
	case *string:
		if v == nil {
			return Placeholder
		}
		return ToDisplay(*v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return Placeholder
		}
		return ToDisplay(*v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// NumberFormat formats numbers for a given locale.
type NumberFormat struct {
	tag     language.Tag
	printer *message.Printer
}

// NewNumberFormat returns the number format of the locale tag.
func NewNumberFormat(tag language.Tag) NumberFormat {
	return NumberFormat{tag: tag, printer: message.NewPrinter(tag)}
}

// ParseNumberFormat returns the number format of a locale name such as "en",
// "en-IN" or the POSIX form "en_IN.UTF-8". Unknown names fall back to English.
func ParseNumberFormat(locale string) NumberFormat {
	return NewNumberFormat(parseLocale(locale))
}

// Locale returns the locale tag of f.
func (f NumberFormat) Locale() language.Tag { return f.tag }

// Format renders n with the locale digit grouping and at most digits fraction
// digits. Trailing zeros are dropped, never padded. Rounding is half to even.
// NaN and infinities have no sensible display and render as Placeholder.
func (f NumberFormat) Format(n float64, digits int) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Placeholder
	}
	if digits < 0 {
		digits = 0
	}
	if f.printer == nil {
		f = defaultNumberFormat
	}
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(digits)))
}

// parseLocale turns a locale name into a tag. POSIX suffixes (encoding and
// modifier) are stripped and underscores become dashes.
func parseLocale(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// EnvLocale returns the locale name of the process environment, looking at
// LC_ALL, LC_NUMERIC then LANG.
func EnvLocale() string {
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// defaultNumberFormat is the format of the process locale, fixed at start.
var defaultNumberFormat = ParseNumberFormat(EnvLocale())

// FormatNumber formats n in the process locale with at most digits fraction
// digits. See NumberFormat.Format.
func FormatNumber(n float64, digits int) string {
	return defaultNumberFormat.Format(n, digits)
}
