package synth

import (
	"fmt"
	"strings"
	"unicode"
)

// Canonical validation rule set. Every generated question must satisfy all
// five rules; the rule tables are package-level so tests can target them.
const (
	minLength = 20
	maxLength = 150
)

var leadPhrases = []string{"Will ", "Can ", "Who will "}

var comparisonKeywords = []string{
	"more than", "higher than", "better", "greater", "than", "versus", "vs",
	"first", "before", "lead",
}

var policyKeywords = []string{
	"bill", "vote", "approval", "law", "policy", "election", "parliament",
	"senate", "congress", "government", "minister", "president",
}

var timeMarkers = []string{
	"tomorrow", "today", "tonight", "weekend", "week", "season", "match on",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
}

// Validate checks a candidate question against the full rule set and
// returns a descriptive error for the first rule that fails.
func Validate(text string) error {
	if len(text) < minLength {
		return fmt.Errorf("question too short: %d < %d", len(text), minLength)
	}
	if len(text) > maxLength {
		return fmt.Errorf("question too long: %d > %d", len(text), maxLength)
	}

	if !hasLeadPhrase(text) {
		return fmt.Errorf("question must start with one of %v", leadPhrases)
	}

	lower := strings.ToLower(text)
	if !hasSignal(lower) {
		return fmt.Errorf("question lacks a digit, comparison or policy signal")
	}

	if !hasProperNoun(text) {
		return fmt.Errorf("question lacks a proper-noun token")
	}

	if !hasTimeMarker(lower) {
		return fmt.Errorf("question lacks a time reference")
	}

	return nil
}

func hasLeadPhrase(text string) bool {
	for _, p := range leadPhrases {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func hasSignal(lower string) bool {
	if strings.HasPrefix(lower, "who will") {
		return true
	}
	if strings.ContainsFunc(lower, unicode.IsDigit) {
		return true
	}
	for _, kw := range comparisonKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if strings.Contains(lower, "both") {
		return true
	}
	for _, kw := range policyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// hasProperNoun looks for a capitalized token of length > 2 anywhere past
// the lead word, so the interrogative itself never counts.
func hasProperNoun(text string) bool {
	tokens := strings.Fields(text)
	for i, tok := range tokens {
		if i == 0 {
			continue
		}
		clean := strings.TrimFunc(tok, func(r rune) bool { return !unicode.IsLetter(r) })
		if len(clean) > 2 && unicode.IsUpper([]rune(clean)[0]) {
			return true
		}
	}
	return false
}

func hasTimeMarker(lower string) bool {
	for _, m := range timeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
