// Package methods defines the closed vocabulary of gap-generation methods
// and the mapping from legacy short codes to canonical names.
package methods

// Canonical method identifiers.
const (
	Contextuality     = "contextuality"
	ContextualityPlus = "contextuality_plus"
	Keyword           = "keyword"
)

// All lists the canonical methods in their catalogue order.
var All = []string{Contextuality, ContextualityPlus, Keyword}

// Earlier study iterations stored methods as single-letter codes.
var legacyCodes = map[string]string{
	"A": Contextuality,
	"B": ContextualityPlus,
	"C": Keyword,
	"a": Contextuality,
	"b": ContextualityPlus,
	"c": Keyword,
}

// LegacyCode returns the lowercase short code for a canonical method. The
// gap runner script still addresses methods by these codes.
func LegacyCode(method string) string {
	switch method {
	case Contextuality:
		return "a"
	case ContextualityPlus:
		return "b"
	case Keyword:
		return "c"
	}
	return ""
}

// ConvertToStandard maps a legacy short code to its canonical identifier.
// Canonical names map to themselves; anything unrecognized passes through
// unchanged so callers can decide how to handle it.
func ConvertToStandard(method string) string {
	if canonical, ok := legacyCodes[method]; ok {
		return canonical
	}
	return method
}

// IsValid reports whether method is a canonical identifier.
func IsValid(method string) bool {
	switch method {
	case Contextuality, ContextualityPlus, Keyword:
		return true
	}
	return false
}

var labels = map[string]string{
	Contextuality:     "Context-Based Gaps",
	ContextualityPlus: "Extended Context Gaps",
	Keyword:           "Keyword-Based Gaps",
}

var descriptions = map[string]string{
	Contextuality:     "Gaps are chosen based on words that can be predicted from the immediate sentence context.",
	ContextualityPlus: "Gaps are chosen based on words that can be predicted from broader passage context.",
	Keyword:           "Gaps are chosen based on key terms that are important to understand the text.",
}

// Label returns a human-readable label for a method.
func Label(method string) string {
	if l, ok := labels[method]; ok {
		return l
	}
	return method
}

// Description returns a participant-facing description of a method.
func Description(method string) string {
	if d, ok := descriptions[method]; ok {
		return d
	}
	return "A method for generating fill-in-the-blank tests."
}
