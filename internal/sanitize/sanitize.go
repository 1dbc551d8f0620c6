// Package sanitize holds the defensive string filters used by document
// export. The contracts here are frozen: downstream PDF layout depends on
// the exact character whitelist, the 500-character cap and the tag strip
// list.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTextLength = 500

var (
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	scriptBlocks  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	iframeBlocks  = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`)
	danglingTags  = regexp.MustCompile(`(?i)</?(?:script|iframe)\b[^>]*>`)
	eventHandlers = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	jsURLs        = regexp.MustCompile(`(?i)javascript\s*:`)
)

// Text strips control characters from free text and caps it at 500
// characters.
func Text(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return truncate(s, maxTextLength)
}

// HTML removes script/iframe blocks, inline event handlers and javascript:
// URLs, then applies the same control-character strip and cap as Text.
func HTML(s string) string {
	s = scriptBlocks.ReplaceAllString(s, "")
	s = iframeBlocks.ReplaceAllString(s, "")
	s = danglingTags.ReplaceAllString(s, "")
	s = eventHandlers.ReplaceAllString(s, "")
	s = jsURLs.ReplaceAllString(s, "")
	return Text(s)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// The fraction table for volume amounts. A parsed fractional part within
// 0.05 of an entry renders as that fraction.
var fractions = []struct {
	value float64
	label string
}{
	{1.0 / 8.0, "1/8"},
	{1.0 / 4.0, "1/4"},
	{1.0 / 3.0, "1/3"},
	{1.0 / 2.0, "1/2"},
	{2.0 / 3.0, "2/3"},
	{3.0 / 4.0, "3/4"},
}

var volumeUnits = map[string]bool{
	"cup": true, "cups": true,
	"tbsp": true, "tablespoon": true, "tablespoons": true,
	"tsp": true, "teaspoon": true, "teaspoons": true,
	"ml": true, "l": true, "liter": true, "liters": true,
	"fl oz": true,
}

var weightUnits = map[string]bool{
	"g": true, "gram": true, "grams": true,
	"kg": true, "kilogram": true, "kilograms": true,
	"oz": true, "ounce": true, "ounces": true,
	"lb": true, "lbs": true, "pound": true, "pounds": true,
}

// FormatIngredientAmount renders a numeric amount string in cooking-friendly
// form for the given unit. Non-numeric amounts pass through unchanged.
func FormatIngredientAmount(amount, unit string) string {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return amount
	}

	switch {
	case volumeUnits[strings.ToLower(strings.TrimSpace(unit))]:
		return formatVolume(value)
	case weightUnits[strings.ToLower(strings.TrimSpace(unit))]:
		return formatDecimal(value, 1)
	default:
		return formatDecimal(value, 2)
	}
}

func formatVolume(value float64) string {
	whole := int(value)
	frac := value - float64(whole)

	if frac < 0.05 {
		return strconv.Itoa(whole)
	}

	for _, f := range fractions {
		if frac >= f.value-0.05 && frac <= f.value+0.05 {
			if whole == 0 {
				return f.label
			}
			return strconv.Itoa(whole) + " " + f.label
		}
	}

	return strconv.FormatFloat(value, 'f', 2, 64)
}

// formatDecimal shows an integer when the value is whole, otherwise the
// given number of decimals.
func formatDecimal(value float64, decimals int) string {
	if value == float64(int(value)) {
		return strconv.Itoa(int(value))
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}
