// Package resolve is the rule-based resolution engine: it classifies a
// pending question's comparison pattern, mines evidence snippets with
// topic-specific analyzers and produces a (outcome, confidence) pair that is
// committed only above a configured threshold.
package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/comdex-official/PRED-AG/internal/extract"
	"github.com/comdex-official/PRED-AG/pkg/models"
)

// ComparisonType classifies the question's comparison pattern.
type ComparisonType string

const (
	CompareMoreThan ComparisonType = "more_than"
	CompareFirst    ComparisonType = "first"
	CompareBoth     ComparisonType = "both"
	CompareExact    ComparisonType = "exact"
	CompareNone     ComparisonType = "none"
)

// comparisonRules are checked in priority order; the first match wins.
var comparisonRules = []struct {
	pattern *regexp.Regexp
	typ     ComparisonType
}{
	{regexp.MustCompile(`more than|higher than|better than|greater than`), CompareMoreThan},
	{regexp.MustCompile(`\bfirst\b|\bbefore\b|\bearlier\b`), CompareFirst},
	{regexp.MustCompile(`\bboth\b`), CompareBoth},
	{regexp.MustCompile(`\bexactly\b|\bprecisely\b`), CompareExact},
}

// metricPatterns map metric names to the language that signals them in
// question text.
var metricPatterns = map[string]*regexp.Regexp{
	"goals":    regexp.MustCompile(`goals?\b`),
	"assists":  regexp.MustCompile(`assists?\b`),
	"wickets":  regexp.MustCompile(`wickets?\b`),
	"runs":     regexp.MustCompile(`runs?\b`),
	"points":   regexp.MustCompile(`points?\b`),
	"century":  regexp.MustCompile(`century|hundred`),
	"fifty":    regexp.MustCompile(`\bfifty\b`),
	"votes":    regexp.MustCompile(`votes?\b`),
	"approval": regexp.MustCompile(`approval`),
	"users":    regexp.MustCompile(`users?\b`),
	"revenue":  regexp.MustCompile(`revenue`),
	"launch":   regexp.MustCompile(`launch|release|announce|unveil`),
	"win":      regexp.MustCompile(`\bwin\b|\bbeat\b|victory`),
	"bill":     regexp.MustCompile(`\bbill\b|\bpass\b`),
}

// metricOrder fixes the iteration order over metricPatterns so context
// extraction is deterministic.
var metricOrder = []string{
	"goals", "assists", "wickets", "runs", "points", "century", "fifty",
	"votes", "approval", "users", "revenue", "launch", "win", "bill",
}

var timeMarkers = []string{
	"tomorrow", "today", "tonight", "weekend", "this week", "next week",
	"season", "match on", "monday", "tuesday", "wednesday", "thursday",
	"friday", "saturday", "sunday",
}

// numberPattern extracts numeric values with an optional scale suffix.
var numberPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(?:\s*(million|billion|bn|k|m|b))?\b`)

// Context is everything the analyzers need, derived fresh from the question
// text on each resolution attempt and never persisted.
type Context struct {
	Comparison    ComparisonType
	Entities      []string
	Targets       []float64
	Metrics       []string
	TimeReference string
}

// BuildContext derives the resolution context from question text alone.
func BuildContext(text string) Context {
	lower := strings.ToLower(text)

	rc := Context{Comparison: CompareNone}
	for _, rule := range comparisonRules {
		if rule.pattern.MatchString(lower) {
			rc.Comparison = rule.typ
			break
		}
	}

	rc.Entities = extract.ProperNouns(text)
	rc.Targets = extractNumbers(text)

	for _, name := range metricOrder {
		if metricPatterns[name].MatchString(lower) {
			rc.Metrics = append(rc.Metrics, name)
		}
	}

	for _, m := range timeMarkers {
		if strings.Contains(lower, m) {
			rc.TimeReference = m
			break
		}
	}
	return rc
}

// extractNumbers returns every numeric value in the text, normalized by its
// scale suffix (million, k, B, ...).
func extractNumbers(text string) []float64 {
	var out []float64
	for _, m := range numberPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, v*scaleFor(m[2]))
	}
	return out
}

func scaleFor(suffix string) float64 {
	switch strings.ToLower(suffix) {
	case "k":
		return 1e3
	case "m", "million":
		return 1e6
	case "b", "bn", "billion":
		return 1e9
	}
	return 1
}

// topicKeywords drive topic inference from question text, a cross-check
// against the topic stored with the question.
var topicKeywords = map[models.Topic][]string{
	models.TopicCricket:    {"runs", "wicket", "century", "fifty", "innings", "ipl", "cricket", "batsman", "bowler", "over rate"},
	models.TopicFootball:   {"goal", "assist", "striker", "penalty", "league", "football", "kick"},
	models.TopicTechnology: {"launch", "iphone", "app", "software", "users", "revenue", "startup", "chip", "release", "android"},
	models.TopicPolitics:   {"bill", "vote", "parliament", "senate", "congress", "approval", "election", "minister", "president", "law"},
}

// InferTopic picks the topic whose keyword set scores highest over the
// question text. Returns "" when nothing matches, letting the caller fall
// back to the topic stored with the question.
func InferTopic(text string) models.Topic {
	lower := strings.ToLower(text)
	var best models.Topic
	bestScore := 0
	for _, topic := range models.Topics {
		score := 0
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = topic
			bestScore = score
		}
	}
	return best
}

// Resolution is the outcome of one resolution attempt. A nil Outcome leaves
// the question pending.
type Resolution struct {
	Outcome    *bool   `json:"outcome"`
	Confidence float64 `json:"confidence"`
	Note       string  `json:"note"`
}

// Engine resolves matured questions against evidence snippets.
type Engine struct {
	threshold float64
	log       *logrus.Entry
}

func NewEngine(threshold float64, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{threshold: threshold, log: log}
}

// ResolveOnce runs the full classification + analysis pipeline for one
// question. It never errors: absence of evidence or of a confident signal
// simply leaves the outcome nil.
func (e *Engine) ResolveOnce(q *models.Question, evidence []string) Resolution {
	if q.Resolved() {
		// Re-resolving is a no-op.
		return Resolution{Outcome: q.Outcome, Confidence: 1.0, Note: "already resolved"}
	}
	if len(evidence) == 0 {
		return Resolution{Note: "no evidence available"}
	}

	rc := BuildContext(q.Text)
	topic := InferTopic(q.Text)
	if topic == "" {
		topic, _ = models.ParseTopic(q.Topic)
	}

	outcome, confidence, excerpts := e.analyze(topic, rc, evidence)
	note := formatNote(len(evidence), excerpts)

	res := Resolution{Confidence: confidence, Note: note}
	if confidence >= e.threshold {
		res.Outcome = &outcome
	}
	return res
}

// analyze dispatches on comparison type first, then on topic. Questions with
// explicit numeric targets go to the topic's numeric analyzers even under
// comparative language ("more than 250 runs").
func (e *Engine) analyze(topic models.Topic, rc Context, evidence []string) (bool, float64, []string) {
	switch {
	case rc.Comparison == CompareMoreThan && len(rc.Targets) == 0 && len(rc.Entities) >= 2:
		return analyzeComparison(rc.Entities[0], rc.Entities[1], rc.Metrics, evidence)
	case rc.Comparison == CompareFirst && len(rc.Entities) >= 2:
		return analyzeSequence(rc.Entities, evidence)
	case rc.Comparison == CompareBoth && len(rc.Entities) >= 2:
		return analyzeJoint(rc.Entities, evidence)
	}
	return e.analyzeTopic(topic, rc, evidence)
}

func (e *Engine) analyzeTopic(topic models.Topic, rc Context, evidence []string) (bool, float64, []string) {
	switch topic {
	case models.TopicCricket:
		return analyzeCricket(rc, evidence)
	case models.TopicFootball:
		return analyzeFootball(rc, evidence)
	case models.TopicPolitics:
		return analyzePolitics(rc, evidence)
	case models.TopicTechnology:
		return analyzeTechnology(rc, evidence)
	}
	return analyzeAchievement(rc.Entities, evidence, 3)
}

// formatNote records the evidence-sentence count plus up to 3 deduplicated
// excerpts.
func formatNote(evidenceCount int, excerpts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on %d evidence snippets.", evidenceCount)
	unique := dedupe(excerpts)
	if len(unique) > 3 {
		unique = unique[:3]
	}
	if len(unique) == 0 {
		b.WriteString(" No conclusive evidence found.")
		return b.String()
	}
	b.WriteString(" Evidence:")
	for i, ex := range unique {
		fmt.Fprintf(&b, " %d. %s", i+1, ex)
	}
	return b.String()
}

func dedupe(items []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
