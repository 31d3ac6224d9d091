package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

// Achievement-word lists used by the sentiment-like scorers.
var positiveWords = map[string]struct{}{
	"win": {}, "wins": {}, "won": {}, "beat": {}, "beats": {}, "victory": {},
	"scored": {}, "scores": {}, "leads": {}, "led": {}, "lead": {},
	"best": {}, "brilliant": {}, "dominant": {}, "top": {}, "star": {},
	"century": {}, "hundred": {}, "fifty": {}, "achieved": {}, "record": {},
	"passed": {}, "approved": {}, "launched": {}, "released": {},
}

var negativeWords = map[string]struct{}{
	"lost": {}, "loses": {}, "lose": {}, "defeat": {}, "defeated": {},
	"injured": {}, "injury": {}, "fails": {}, "failed": {}, "poor": {},
	"struggles": {}, "struggled": {}, "dropped": {}, "flop": {},
	"rejected": {}, "cancelled": {}, "delayed": {},
}

// Per-metric evidence patterns with the divisor that scales confidence by
// qualifying-mention count.
type numericMetric struct {
	pattern *regexp.Regexp
	divisor float64
}

var numericMetrics = map[string]numericMetric{
	"runs":     {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*runs?\b`), 2},
	"wickets":  {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*wickets?\b`), 2},
	"goals":    {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*goals?\b`), 2},
	"assists":  {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*assists?\b`), 2},
	"points":   {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*points?\b`), 2},
	"votes":    {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*votes?\b`), 2},
	"approval": {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:%|percent)`), 2},
	"users":    {regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(?:\s*(million|billion|bn|k|m|b))?\s*users\b`), 2},
	"revenue":  {regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)(?:\s*(million|billion|bn|k|m|b))?\b`), 3},
}

// analyzeComparison handles "more than" questions between two named
// entities without an explicit numeric target: sentences mentioning both
// entities contribute a directional score per entity from surrounding
// achievement words; confidence scales with qualifying mentions.
func analyzeComparison(a, b string, metrics []string, evidence []string) (bool, float64, []string) {
	var excerpts []string
	mentions := 0
	scoreA, scoreB := 0, 0

	for _, snippet := range evidence {
		for _, sentence := range splitSnippet(snippet) {
			lower := strings.ToLower(sentence)
			if !strings.Contains(lower, strings.ToLower(a)) || !strings.Contains(lower, strings.ToLower(b)) {
				continue
			}
			if !mentionsMetric(lower, metrics) {
				continue
			}
			mentions++
			scoreA += entityScore(sentence, a)
			scoreB += entityScore(sentence, b)
			excerpts = append(excerpts, strings.TrimSpace(sentence))
		}
	}

	if mentions == 0 {
		return false, 0, nil
	}
	confidence := capConfidence(float64(mentions) / 5)
	return scoreA > scoreB, confidence, excerpts
}

// analyzeSequence handles temporal-precedence questions: the first snippet
// (evidence arrives most-recent-last is not guaranteed, so document order is
// the best available proxy) crediting either entity decides who was first.
func analyzeSequence(entities []string, evidence []string) (bool, float64, []string) {
	first, second := entities[0], entities[1]
	var excerpts []string
	hits := 0
	firstWinner := ""

	for _, snippet := range evidence {
		for _, sentence := range splitSnippet(snippet) {
			for _, entity := range []string{first, second} {
				if strings.Contains(strings.ToLower(sentence), strings.ToLower(entity)) && entityScore(sentence, entity) > 0 {
					hits++
					if firstWinner == "" {
						firstWinner = entity
					}
					excerpts = append(excerpts, strings.TrimSpace(sentence))
				}
			}
		}
	}

	if hits == 0 {
		return false, 0, nil
	}
	return firstWinner == first, capConfidence(float64(hits) / 3), excerpts
}

// analyzeJoint handles "both X and Y ..." questions: every entity needs at
// least one crediting mention.
func analyzeJoint(entities []string, evidence []string) (bool, float64, []string) {
	var excerpts []string
	total := 0
	achieved := 0

	for _, entity := range entities {
		count := 0
		for _, snippet := range evidence {
			for _, sentence := range splitSnippet(snippet) {
				if strings.Contains(strings.ToLower(sentence), strings.ToLower(entity)) && entityScore(sentence, entity) > 0 {
					count++
					excerpts = append(excerpts, strings.TrimSpace(sentence))
				}
			}
		}
		total += count
		if count > 0 {
			achieved++
		}
	}

	if total == 0 {
		return false, 0, nil
	}
	return achieved == len(entities), capConfidence(float64(total) / 4), excerpts
}

// analyzeAchievement is the generic single-subject scorer used for win/beat
// style questions and as the last-resort analyzer.
func analyzeAchievement(entities []string, evidence []string, divisor float64) (bool, float64, []string) {
	if len(entities) == 0 {
		return false, 0, nil
	}
	subject := entities[0]
	var excerpts []string
	pos, neg := 0, 0

	for _, snippet := range evidence {
		for _, sentence := range splitSnippet(snippet) {
			if !strings.Contains(strings.ToLower(sentence), strings.ToLower(subject)) {
				continue
			}
			score := entityScore(sentence, subject)
			if score > 0 {
				pos++
			} else if score < 0 {
				neg++
			} else {
				continue
			}
			excerpts = append(excerpts, strings.TrimSpace(sentence))
		}
	}

	if pos+neg == 0 {
		return false, 0, nil
	}
	return pos > neg, capConfidence(float64(pos+neg) / divisor), excerpts
}

// analyzeNumeric compares per-metric values found in evidence against the
// question's target: any qualifying mention at or above the target means the
// target was achieved.
func analyzeNumeric(metric string, target float64, evidence []string) (bool, float64, []string) {
	nm, ok := numericMetrics[metric]
	if !ok {
		return false, 0, nil
	}
	var excerpts []string
	qualifying := 0

	for _, snippet := range evidence {
		for _, m := range nm.pattern.FindAllStringSubmatch(snippet, -1) {
			v := parseScaled(m)
			if v >= target {
				qualifying++
				excerpts = append(excerpts, strings.TrimSpace(snippet))
			}
		}
	}

	if qualifying == 0 {
		return false, 0, nil
	}
	return true, capConfidence(float64(qualifying) / nm.divisor), excerpts
}

// analyzeWordMetric counts snippets that mention the subject together with a
// marker word ("century", "fifty", ...).
func analyzeWordMetric(subject string, markers []string, evidence []string, divisor float64) (bool, float64, []string) {
	var excerpts []string
	count := 0
	for _, snippet := range evidence {
		lower := strings.ToLower(snippet)
		if subject != "" && !strings.Contains(lower, strings.ToLower(subject)) {
			continue
		}
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				count++
				excerpts = append(excerpts, strings.TrimSpace(snippet))
				break
			}
		}
	}
	if count == 0 {
		return false, 0, nil
	}
	return true, capConfidence(float64(count) / divisor), excerpts
}

func analyzeCricket(rc Context, evidence []string) (bool, float64, []string) {
	subject := firstEntity(rc)
	switch {
	case hasMetric(rc, "runs") && len(rc.Targets) > 0:
		return analyzeNumeric("runs", rc.Targets[0], evidence)
	case hasMetric(rc, "wickets") && len(rc.Targets) > 0:
		return analyzeNumeric("wickets", rc.Targets[0], evidence)
	case hasMetric(rc, "century"):
		return analyzeWordMetric(subject, []string{"century", "hundred"}, evidence, 3)
	case hasMetric(rc, "fifty"):
		return analyzeWordMetric(subject, []string{"fifty", "half-century"}, evidence, 3)
	}
	return analyzeAchievement(rc.Entities, evidence, 3)
}

func analyzeFootball(rc Context, evidence []string) (bool, float64, []string) {
	switch {
	case hasMetric(rc, "goals") && len(rc.Targets) > 0:
		return analyzeNumeric("goals", rc.Targets[0], evidence)
	case hasMetric(rc, "assists") && len(rc.Targets) > 0:
		return analyzeNumeric("assists", rc.Targets[0], evidence)
	}
	return analyzeAchievement(rc.Entities, evidence, 3)
}

func analyzePolitics(rc Context, evidence []string) (bool, float64, []string) {
	switch {
	case hasMetric(rc, "votes") && len(rc.Targets) > 0:
		return analyzeNumeric("votes", rc.Targets[0], evidence)
	case hasMetric(rc, "approval") && len(rc.Targets) > 0:
		return analyzeNumeric("approval", rc.Targets[0], evidence)
	case hasMetric(rc, "bill"):
		return analyzeBillStatus(evidence)
	}
	return analyzeAchievement(rc.Entities, evidence, 3)
}

// analyzeBillStatus: a defeat word anywhere decides false before a passage
// word decides true.
func analyzeBillStatus(evidence []string) (bool, float64, []string) {
	defeated, passed := 0, 0
	var excerpts []string
	for _, snippet := range evidence {
		lower := strings.ToLower(snippet)
		switch {
		case containsAny(lower, "rejected", "vetoed", "defeated", "blocked"):
			defeated++
			excerpts = append(excerpts, strings.TrimSpace(snippet))
		case containsAny(lower, "passed", "approved", "enacted", "signed into law"):
			passed++
			excerpts = append(excerpts, strings.TrimSpace(snippet))
		}
	}
	switch {
	case defeated > 0:
		return false, capConfidence(float64(defeated) / 2), excerpts
	case passed > 0:
		return true, capConfidence(float64(passed) / 2), excerpts
	}
	return false, 0, nil
}

func analyzeTechnology(rc Context, evidence []string) (bool, float64, []string) {
	switch {
	case hasMetric(rc, "users") && len(rc.Targets) > 0:
		return analyzeNumeric("users", rc.Targets[0], evidence)
	case hasMetric(rc, "revenue") && len(rc.Targets) > 0:
		return analyzeNumeric("revenue", rc.Targets[0], evidence)
	case hasMetric(rc, "launch"):
		return analyzeLaunchStatus(evidence)
	}
	return analyzeAchievement(rc.Entities, evidence, 3)
}

// analyzeLaunchStatus applies the fixed status-word precedence:
// cancelled > released > delayed > announced.
func analyzeLaunchStatus(evidence []string) (bool, float64, []string) {
	counts := map[string]int{}
	excerptsByStatus := map[string][]string{}
	statusWords := map[string][]string{
		"cancelled": {"cancelled", "canceled", "scrapped"},
		"released":  {"released", "launched", "now available", "ships"},
		"delayed":   {"delayed", "postponed", "pushed back"},
		"announced": {"announced", "unveiled", "revealed", "confirmed"},
	}
	for _, snippet := range evidence {
		lower := strings.ToLower(snippet)
		for status, words := range statusWords {
			if containsAny(lower, words...) {
				counts[status]++
				excerptsByStatus[status] = append(excerptsByStatus[status], strings.TrimSpace(snippet))
			}
		}
	}

	switch {
	case counts["cancelled"] > 0:
		return false, 1.0, excerptsByStatus["cancelled"]
	case counts["released"] > 0:
		return true, 1.0, excerptsByStatus["released"]
	case counts["delayed"] > 0:
		return false, capConfidence(float64(counts["delayed"]) / 2), excerptsByStatus["delayed"]
	case counts["announced"] > 0:
		return true, 0.7, excerptsByStatus["announced"]
	}
	return false, 0, nil
}

// entityScore sums achievement words in a 5-token window around each
// mention of the entity inside the sentence.
func entityScore(sentence, entity string) int {
	const window = 5
	tokens := strings.Fields(strings.ToLower(sentence))
	needle := strings.Fields(strings.ToLower(entity))
	if len(needle) == 0 {
		return 0
	}

	score := 0
	for i := range tokens {
		if !matchAt(tokens, i, needle) {
			continue
		}
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + len(needle) + window
		if hi > len(tokens) {
			hi = len(tokens)
		}
		for _, tok := range tokens[lo:hi] {
			clean := strings.Trim(tok, ".,;:!?\"'()")
			if _, ok := positiveWords[clean]; ok {
				score++
			} else if _, ok := negativeWords[clean]; ok {
				score--
			}
		}
	}
	return score
}

func matchAt(tokens []string, i int, needle []string) bool {
	if i+len(needle) > len(tokens) {
		return false
	}
	for j, n := range needle {
		if strings.Trim(tokens[i+j], ".,;:!?\"'()") != n {
			return false
		}
	}
	return true
}

func parseScaled(match []string) float64 {
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	if len(match) > 2 {
		v *= scaleFor(match[2])
	}
	return v
}

func mentionsMetric(lower string, metrics []string) bool {
	if len(metrics) == 0 {
		// Fall back to generic achievement language when the question
		// carries no explicit metric.
		return containsAny(lower, "score", "achieve", "win", "goal", "run")
	}
	for _, m := range metrics {
		if p, ok := metricPatterns[m]; ok && p.MatchString(lower) {
			return true
		}
	}
	return false
}

func hasMetric(rc Context, name string) bool {
	for _, m := range rc.Metrics {
		if m == name {
			return true
		}
	}
	return false
}

func firstEntity(rc Context) string {
	if len(rc.Entities) == 0 {
		return ""
	}
	return rc.Entities[0]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func splitSnippet(snippet string) []string {
	return strings.FieldsFunc(snippet, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

func capConfidence(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
