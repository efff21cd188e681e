package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation rule patterns
var (
	// EmailPattern is the pattern borrower emails must match
	EmailPattern = `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`

	// NameMinLength is the minimum length of any record name
	NameMinLength = 2
	// NameMaxLength is the maximum length of any record name
	NameMaxLength = 255
	// DescriptionMaxLength bounds free-text fields
	DescriptionMaxLength = 2000

	// MaxQuantity bounds every stock and loan quantity
	MaxQuantity = 1_000_000
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation describes the constraints on a single text field
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp

	requiredMsg string
	minLenMsg   string
	maxLenMsg   string
	patternMsg  string
}

// NewStringValidation creates a new string validation. The value is trimmed.
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int, msg string) *StringValidation {
	v.MinLen = min
	v.minLenMsg = msg
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int, msg string) *StringValidation {
	v.MaxLen = max
	v.maxLenMsg = msg
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp, msg string) *StringValidation {
	v.Pattern = pattern
	v.patternMsg = msg
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool, msg string) *StringValidation {
	v.Required = required
	v.requiredMsg = msg
	return v
}

// Check returns the first failing rule's message, or "" when the value is valid.
// Lengths are counted in runes so accented names are measured as typed.
func (v *StringValidation) Check() string {
	if v.Value == "" {
		if v.Required {
			return orDefault(v.requiredMsg, "This field is required")
		}
		return ""
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return orDefault(v.minLenMsg, "Value is too short")
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return orDefault(v.maxLenMsg, "Value is too long")
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return orDefault(v.patternMsg, "Value has an invalid format")
	}
	return ""
}

// Validate reports whether the value passes every rule
func (v *StringValidation) Validate() bool {
	return v.Check() == ""
}

// QuantityValidation parses and checks a quantity typed as text
type QuantityValidation struct {
	Raw string
	Min int
}

// NewQuantityValidation creates a quantity validation with a minimum of zero
func NewQuantityValidation(raw string) *QuantityValidation {
	return &QuantityValidation{Raw: strings.TrimSpace(raw)}
}

// WithMin sets the smallest accepted value
func (v *QuantityValidation) WithMin(min int) *QuantityValidation {
	v.Min = min
	return v
}

// Parse returns the parsed quantity and the failure message, if any.
func (v *QuantityValidation) Parse() (int, string) {
	if v.Raw == "" {
		return 0, "Quantity is required"
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return 0, "Must be a valid number"
	}
	if n < 0 {
		return 0, "Quantity cannot be negative"
	}
	if n < v.Min {
		return 0, "Quantity must be at least " + strconv.Itoa(v.Min)
	}
	if n > MaxQuantity {
		return 0, QuantityTooLargeMessage()
	}
	return n, ""
}

// QuantityTooLargeMessage is reported for quantities above MaxQuantity
func QuantityTooLargeMessage() string {
	return "Quantity must be at most " + strconv.Itoa(MaxQuantity)
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
