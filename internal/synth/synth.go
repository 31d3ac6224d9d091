// Package synth turns a topic's scraped headlines into a validated yes/no
// prediction question by filling a randomly chosen template with curated
// and extracted entities.
package synth

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/comdex-official/PRED-AG/internal/catalog"
	"github.com/comdex-official/PRED-AG/internal/extract"
	"github.com/comdex-official/PRED-AG/pkg/models"
)

// ErrNoArticles means the headline set was empty: there is nothing to
// synthesize from and the caller should surface "no question this round".
var ErrNoArticles = errors.New("synth: no articles to build a question from")

// Draft is a synthesized question before it is persisted.
type Draft struct {
	TemplateID     string
	Topic          models.Topic
	Text           string
	SourceArticles []string
	SourceLinks    []string
}

// maxAttempts bounds the validate-and-retry loop before the deterministic
// fallback takes over.
const maxAttempts = 3

const maxSourceArticles = 3

// fallbackTexts are constructed to satisfy every validator rule, so they are
// exempt from re-validation.
var fallbackTexts = map[models.Topic]string{
	models.TopicCricket:    "Will Mumbai Indians win the match versus Chennai Super Kings tomorrow?",
	models.TopicFootball:   "Will Manchester City win versus Liverpool FC tomorrow?",
	models.TopicTechnology: "Will Apple launch iPhone 17 tomorrow?",
	models.TopicPolitics:   "Will Parliament pass the Budget bill tomorrow?",
}

// Synthesizer builds question drafts. Randomness is injected so synthesis
// is reproducible under a fixed seed.
type Synthesizer struct {
	rng *rand.Rand
	log *logrus.Entry
}

func New(rng *rand.Rand, log *logrus.Entry) *Synthesizer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Synthesizer{rng: rng, log: log}
}

// Synthesize produces one validated draft for the topic, retrying up to
// maxAttempts before emitting the topic's deterministic fallback.
func (s *Synthesizer) Synthesize(topic models.Topic, set models.HeadlineSet) (Draft, error) {
	if set.Empty() {
		return Draft{}, ErrNoArticles
	}
	entry, ok := catalog.Get(topic)
	if !ok {
		return Draft{}, fmt.Errorf("synth: unknown topic %q", topic)
	}

	p := s.buildPools(entry, extract.FromHeadlines(set.Headlines))

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, templateID := s.build(entry, p)
		if err := Validate(text); err != nil {
			s.log.WithFields(logrus.Fields{
				"topic":   topic,
				"attempt": attempt,
			}).Debugf("draft rejected: %v", err)
			continue
		}
		return s.draft(topic, templateID, text, set), nil
	}

	return s.draft(topic, "fallback", fallbackTexts[topic], set), nil
}

// SynthesizeBatch produces up to n drafts with pairwise-distinct text.
func (s *Synthesizer) SynthesizeBatch(topic models.Topic, set models.HeadlineSet, n int) ([]Draft, error) {
	if set.Empty() {
		return nil, ErrNoArticles
	}
	drafts := make([]Draft, 0, n)
	seen := map[string]struct{}{}
	// Generation is random, so allow extra rounds before giving up on
	// filling the batch with distinct texts.
	for tries := 0; len(drafts) < n && tries < n*4; tries++ {
		d, err := s.Synthesize(topic, set)
		if err != nil {
			return drafts, err
		}
		if _, dup := seen[d.Text]; dup {
			continue
		}
		seen[d.Text] = struct{}{}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (s *Synthesizer) draft(topic models.Topic, templateID, text string, set models.HeadlineSet) Draft {
	articles := set.Headlines
	links := set.Links
	if len(articles) > maxSourceArticles {
		articles = articles[:maxSourceArticles]
	}
	if len(links) > maxSourceArticles {
		links = links[:maxSourceArticles]
	}
	return Draft{
		TemplateID:     templateID,
		Topic:          topic,
		Text:           text,
		SourceArticles: append([]string(nil), articles...),
		SourceLinks:    append([]string(nil), links...),
	}
}

// pools are the slot candidate lists after augmentation with extracted
// entities. Extracted players are split pseudo-randomly between subject and
// opponent sub-pools; extracted teams join both team pools.
type pools struct {
	subjects      []string
	opponents     []string
	teams         []string
	opponentTeams []string
}

func (s *Synthesizer) buildPools(entry catalog.Entry, ents extract.Entities) pools {
	p := pools{
		subjects:      append([]string(nil), entry.Players...),
		opponents:     append([]string(nil), entry.Players...),
		teams:         append([]string(nil), entry.Teams...),
		opponentTeams: append([]string(nil), entry.Teams...),
	}
	for _, player := range ents.Players {
		if len(player) < 3 {
			continue
		}
		if s.rng.Intn(2) == 0 {
			p.subjects = append(p.subjects, player)
		} else {
			p.opponents = append(p.opponents, player)
		}
	}
	for _, team := range ents.Teams {
		if len(team) < 3 {
			continue
		}
		p.teams = append(p.teams, team)
		p.opponentTeams = append(p.opponentTeams, team)
	}
	// Empty augmented pools fall back to the curated defaults.
	if len(p.subjects) == 0 {
		p.subjects = entry.Players
	}
	if len(p.opponents) == 0 {
		p.opponents = entry.Players
	}
	if len(p.teams) == 0 {
		p.teams = entry.Teams
	}
	if len(p.opponentTeams) == 0 {
		p.opponentTeams = entry.Teams
	}
	return p
}

var slotPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// build picks a template uniformly at random and fills its slots, enforcing
// distinctness for subject/opponent pairs. When the topic has a fixture
// calendar the time reference may describe a scheduled match, in which case
// the fixture's teams override the pool draw.
func (s *Synthesizer) build(entry catalog.Entry, p pools) (text, templateID string) {
	tmpl := entry.Templates[s.rng.Intn(len(entry.Templates))]

	var fixture *catalog.Fixture
	timeRef := entry.TimePhrases[s.rng.Intn(len(entry.TimePhrases))]
	usesTeams := strings.Contains(tmpl.Text, "{team}") && strings.Contains(tmpl.Text, "{opponent}")
	if usesTeams && len(entry.Fixtures) > 0 && s.rng.Intn(2) == 0 {
		f := entry.Fixtures[s.rng.Intn(len(entry.Fixtures))]
		fixture = &f
		timeRef = fmt.Sprintf("in the %s match on %s", f.Tournament, f.Date)
	}

	chosen := map[string]string{}
	text = slotPattern.ReplaceAllStringFunc(tmpl.Text, func(m string) string {
		slot := slotPattern.FindStringSubmatch(m)[1]
		v := s.fillSlot(slot, entry, p, fixture, timeRef, chosen)
		chosen[slot] = v
		return v
	})
	return text, tmpl.ID
}

func (s *Synthesizer) fillSlot(slot string, entry catalog.Entry, p pools, fixture *catalog.Fixture, timeRef string, chosen map[string]string) string {
	switch slot {
	case "time":
		return timeRef
	case "team":
		if fixture != nil {
			return fixture.Home
		}
		return s.pick(p.teams)
	case "opponent":
		if fixture != nil {
			return fixture.Away
		}
		return s.pickDistinct(p.opponentTeams, chosen["team"])
	case "player":
		return s.pick(p.subjects)
	case "opponent_player":
		return s.pickDistinct(p.opponents, chosen["player"])
	}

	if nums, ok := entry.Numbers[slot]; ok && len(nums) > 0 {
		return strconv.Itoa(nums[s.rng.Intn(len(nums))])
	}
	if words, ok := entry.Words[slot]; ok && len(words) > 0 {
		if base := strings.TrimPrefix(slot, "opponent_"); base != slot {
			return s.pickDistinct(words, chosen[base])
		}
		return s.pick(words)
	}
	return ""
}

func (s *Synthesizer) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.Intn(len(pool))]
}

// pickDistinct draws a value different from exclude whenever the pool
// permits it.
func (s *Synthesizer) pickDistinct(pool []string, exclude string) string {
	filtered := make([]string, 0, len(pool))
	for _, v := range pool {
		if v != exclude {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return s.pick(pool)
	}
	return filtered[s.rng.Intn(len(filtered))]
}
