package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Allow letters, numbers, spaces, and common professional punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Applicant ids are uuids or intake-system keys; they end up in blob paths
	applicantIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("applicant_id", ApplicantID)
	_ = v.RegisterValidation("decision", Decision)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false // Supplementary characters (mostly emoji/symbols)
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// ApplicantID accepts path-safe identifiers only.
func ApplicantID(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsPathSafeID(val)
}

// IsPathSafeID reports whether id can be used as a blob path segment.
func IsPathSafeID(id string) bool {
	return applicantIDRegex.MatchString(id)
}

// Decision accepts any spelling NormalizeDecision understands.
func Decision(fl validator.FieldLevel) bool {
	_, ok := NormalizeDecision(fl.Field().String())
	return ok
}

// Rejected is the evaluate-candidates page's word for Declined.
var decisionAliases = map[string]string{
	"approved": "Approved",
	"declined": "Declined",
	"rejected": "Declined",
	"on-hold":  "On-Hold",
	"on hold":  "On-Hold",
	"onhold":   "On-Hold",
}

// NormalizeDecision maps case-insensitive input to Approved, Declined or On-Hold.
func NormalizeDecision(decision string) (string, bool) {
	canonical, ok := decisionAliases[strings.ToLower(strings.TrimSpace(decision))]
	return canonical, ok
}
