// Package format turns raw quote fields into display strings. Every function
// is total: missing or malformed input produces a fallback, never a panic.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/komsit37/tickerdash/pkg/dash/types"
)

// NA marks a value that is not available.
const NA = "N/A"

// Templates understood by Numeric.
const (
	TemplateFixed2   = "%.2f"
	TemplateDollar2  = "$%.2f"
	TemplatePercent2 = "%.2f%%"
)

var suffixes = []string{"", "K", "M", "B", "T"}

// Magnitude renders a dollar amount with a thousands suffix, e.g. 1500 as
// "$1.5K" and 2.8e12 as "$2.8T". Zero and absent values are "N/A".
func Magnitude(v any) string {
	f, ok := finite(v)
	if !ok || f == 0 {
		return NA
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	idx := 0
	for f >= 1000 && idx < len(suffixes)-1 {
		f /= 1000
		idx++
	}
	s := strconv.FormatFloat(f, 'f', 1, 64)
	// 999.99K prints as "1000.0K"; roll it into the next suffix.
	if r, err := strconv.ParseFloat(s, 64); err == nil && r >= 1000 && idx < len(suffixes)-1 {
		f /= 1000
		idx++
		s = strconv.FormatFloat(f, 'f', 1, 64)
	}
	return sign + "$" + s + suffixes[idx]
}

// Numeric applies a single-verb fmt template such as "$%.2f" to v. It
// returns the fallback (default "N/A") when v is absent or not a finite
// number, or when the template does not format cleanly.
func Numeric(v any, template string, fallback ...string) (out string) {
	fb := fallbackOf(fallback)
	defer func() {
		if r := recover(); r != nil {
			out = fb
		}
	}()
	f, ok := finite(v)
	if !ok {
		return fb
	}
	s := fmt.Sprintf(template, f)
	if strings.Contains(s, "%!") {
		return fb
	}
	return s
}

// Percent renders a ratio as a percentage ("0.0044" -> "0.44%"). Zero and
// absent values use the fallback.
func Percent(v any, fallback ...string) string {
	f, ok := finite(v)
	if !ok || f == 0 {
		return fallbackOf(fallback)
	}
	return Numeric(f*100, TemplatePercent2, fallback...)
}

// Capitalize upper-cases the first rune of a string field and leaves the
// rest untouched.
func Capitalize(v any) string {
	s, ok := v.(string)
	if !ok {
		return NA
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return NA
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Text renders a descriptive field verbatim. Numbers use their shortest
// representation so 164000 stays "164000".
func Text(v any) string {
	if v == nil {
		return NA
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return NA
		}
		return s
	}
	if f, ok := types.ToFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return NA
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func finite(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, ok := types.ToFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func fallbackOf(fallback []string) string {
	if len(fallback) > 0 {
		return fallback[0]
	}
	return NA
}
