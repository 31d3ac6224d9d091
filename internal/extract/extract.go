// Package extract classifies capitalized spans in headline text into
// players, teams and tournaments using ordered rule tables. It is pure:
// identical headlines always yield identical entities.
package extract

import (
	"strings"
	"unicode"
)

// Entities holds deduplicated entity names pulled out of a headline set.
// No ordering is guaranteed beyond first appearance.
type Entities struct {
	Players     []string
	Teams       []string
	Tournaments []string
}

// stopWords are capitalized tokens that never start an entity name: months,
// weekdays, leading articles and generic tech/political nouns that headlines
// capitalize without naming anyone.
var stopWords = map[string]struct{}{
	"January": {}, "February": {}, "March": {}, "April": {}, "May": {},
	"June": {}, "July": {}, "August": {}, "September": {}, "October": {},
	"November": {}, "December": {},
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
	"The": {}, "A": {}, "An": {}, "In": {}, "On": {}, "At": {}, "Of": {},
	"For": {}, "And": {}, "But": {}, "With": {}, "After": {}, "Before": {},
	"As": {}, "By": {}, "From": {}, "To": {}, "Over": {}, "Under": {},
	"New": {}, "Breaking": {}, "Live": {}, "Update": {}, "Report": {},
	"Government": {}, "Parliament": {}, "Senate": {}, "Congress": {},
	"Tech": {}, "App": {}, "AI": {}, "CEO": {}, "IPO": {},
	"Will": {}, "Can": {}, "Who": {}, "Is": {}, "Are": {}, "Does": {},
	"Has": {}, "Could": {}, "Should": {},
}

var teamIndicators = []string{
	"FC", "United", "City", "XI", "Indians", "Kings", "Royals", "Riders",
	"Capitals", "Titans", "Giants", "Super", "Strikers", "Rovers", "Albion",
	"Wanderers",
}

var tournamentIndicators = []string{
	"League", "Cup", "Series", "Championship", "Trophy", "Open", "Premier",
	"IPL",
}

// playerContextWords are role/action/stat keywords that, appearing near a
// candidate, mark it as a person rather than an organization.
var playerContextWords = map[string]struct{}{
	"scores": {}, "scored": {}, "scoring": {}, "hits": {}, "hit": {},
	"smashes": {}, "takes": {}, "took": {}, "bowls": {}, "bowled": {},
	"batsman": {}, "bowler": {}, "captain": {}, "skipper": {},
	"striker": {}, "keeper": {}, "midfielder": {}, "defender": {},
	"goalkeeper": {}, "century": {}, "fifty": {}, "wickets": {},
	"wicket": {}, "runs": {}, "goals": {}, "goal": {}, "assists": {},
	"innings": {}, "player": {}, "star": {}, "signs": {}, "signed": {},
	"injury": {}, "injured": {}, "says": {}, "said": {}, "announces": {},
	"leads": {}, "led": {}, "wins": {}, "won": {},
}

type category int

const (
	categoryNone category = iota
	categoryTournament
	categoryTeam
	categoryPlayer
)

// classifyRules are evaluated in order; the first matching predicate wins.
// Tournament runs before team so "Premier League" is never claimed by a
// team-indicator word, and team before player so multi-word club names stay
// out of the player pool.
var classifyRules = []struct {
	matches func(candidate []string, window []string) bool
	cat     category
}{
	{matchesAny(tournamentIndicators), categoryTournament},
	{matchesAny(teamIndicators), categoryTeam},
	{isPlayer, categoryPlayer},
}

func matchesAny(indicators []string) func([]string, []string) bool {
	return func(candidate []string, _ []string) bool {
		for _, word := range candidate {
			for _, ind := range indicators {
				if word == ind || strings.Contains(word, ind) {
					return true
				}
			}
		}
		return false
	}
}

func isPlayer(candidate []string, window []string) bool {
	name := strings.Join(candidate, " ")
	if len(name) < 4 {
		return false
	}
	if len(candidate) >= 2 {
		return true
	}
	for _, w := range window {
		if _, ok := playerContextWords[strings.ToLower(w)]; ok {
			return true
		}
	}
	return false
}

// FromHeadlines scans each headline sentence by sentence, merges runs of
// capitalized tokens into candidate names and classifies them. Ambiguous
// candidates are dropped, not guessed at.
func FromHeadlines(headlines []string) Entities {
	var out Entities
	seen := map[string]struct{}{}

	for _, headline := range headlines {
		for _, sentence := range splitSentences(headline) {
			tokens := tokenize(sentence)
			for i := 0; i < len(tokens); i++ {
				if !startsName(tokens[i]) {
					continue
				}
				j := i
				var candidate []string
				for j < len(tokens) && startsName(tokens[j]) {
					candidate = append(candidate, tokens[j])
					j++
				}
				name := strings.Join(candidate, " ")
				if len(name) >= 3 {
					if _, dup := seen[name]; !dup {
						cat := classify(candidate, contextWindow(tokens, i, j))
						if cat != categoryNone {
							seen[name] = struct{}{}
						}
						switch cat {
						case categoryTournament:
							out.Tournaments = append(out.Tournaments, name)
						case categoryTeam:
							out.Teams = append(out.Teams, name)
						case categoryPlayer:
							out.Players = append(out.Players, name)
						}
					}
				}
				i = j - 1
			}
		}
	}
	return out
}

// ProperNouns returns every merged capitalized candidate in order of first
// appearance, without classification. The resolution engine uses it to pull
// named entities out of question text, where category does not matter.
func ProperNouns(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, sentence := range splitSentences(text) {
		tokens := tokenize(sentence)
		for i := 0; i < len(tokens); i++ {
			if !startsName(tokens[i]) {
				continue
			}
			j := i
			var candidate []string
			for j < len(tokens) && startsName(tokens[j]) {
				candidate = append(candidate, tokens[j])
				j++
			}
			name := strings.Join(candidate, " ")
			if len(name) >= 3 {
				if _, dup := seen[name]; !dup {
					seen[name] = struct{}{}
					out = append(out, name)
				}
			}
			i = j - 1
		}
	}
	return out
}

func classify(candidate []string, window []string) category {
	for _, rule := range classifyRules {
		if rule.matches(candidate, window) {
			return rule.cat
		}
	}
	return categoryNone
}

// contextWindow returns up to 3 tokens on either side of candidate span [i, j).
func contextWindow(tokens []string, i, j int) []string {
	const span = 3
	lo := i - span
	if lo < 0 {
		lo = 0
	}
	hi := j + span
	if hi > len(tokens) {
		hi = len(tokens)
	}
	window := make([]string, 0, hi-lo)
	window = append(window, tokens[lo:i]...)
	window = append(window, tokens[j:hi]...)
	return window
}

// startsName reports whether a token can begin or extend a candidate name.
func startsName(token string) bool {
	if len(token) < 2 {
		return false
	}
	r := []rune(token)[0]
	if !unicode.IsUpper(r) {
		return false
	}
	_, stopped := stopWords[token]
	return !stopped
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == ';' || r == ':'
	})
}

func tokenize(sentence string) []string {
	fields := strings.Fields(sentence)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
