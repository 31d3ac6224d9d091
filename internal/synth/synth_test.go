package synth

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/comdex-official/PRED-AG/pkg/models"
)

func newTestSynthesizer(seed int64) *Synthesizer {
	return New(rand.New(rand.NewSource(seed)), nil)
}

func headlineSet(topic models.Topic) models.HeadlineSet {
	switch topic {
	case models.TopicCricket:
		return models.HeadlineSet{
			Topic:     topic,
			Headlines: []string{"Mumbai Indians beat Chennai Super Kings by 20 runs", "Virat Kohli scores century"},
			Links:     []string{"https://example.org/a", "https://example.org/b"},
		}
	case models.TopicFootball:
		return models.HeadlineSet{
			Topic:     topic,
			Headlines: []string{"Haaland scores twice as Manchester City win"},
			Links:     []string{"https://example.org/c"},
		}
	case models.TopicTechnology:
		return models.HeadlineSet{
			Topic:     topic,
			Headlines: []string{"Apple unveils new chip ahead of iPhone event"},
			Links:     []string{"https://example.org/d"},
		}
	default:
		return models.HeadlineSet{
			Topic:     topic,
			Headlines: []string{"Parliament debates new budget bill"},
			Links:     []string{"https://example.org/e"},
		}
	}
}

func TestSynthesizeSatisfiesValidator(t *testing.T) {
	t.Parallel()

	for _, topic := range models.Topics {
		s := newTestSynthesizer(1)
		for i := 0; i < 50; i++ {
			d, err := s.Synthesize(topic, headlineSet(topic))
			if err != nil {
				t.Fatalf("topic %s: Synthesize returned error: %v", topic, err)
			}
			if err := Validate(d.Text); err != nil {
				t.Fatalf("topic %s: generated question fails validation: %q: %v", topic, d.Text, err)
			}
			if d.Topic != topic {
				t.Fatalf("draft topic = %s, want %s", d.Topic, topic)
			}
		}
	}
}

func TestSynthesizeEmptyHeadlines(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(1)
	_, err := s.Synthesize(models.TopicCricket, models.HeadlineSet{Topic: models.TopicCricket})
	if err != ErrNoArticles {
		t.Fatalf("err = %v, want ErrNoArticles", err)
	}
}

func TestSynthesizeReproducible(t *testing.T) {
	t.Parallel()

	set := headlineSet(models.TopicCricket)
	a, _ := newTestSynthesizer(42).Synthesize(models.TopicCricket, set)
	b, _ := newTestSynthesizer(42).Synthesize(models.TopicCricket, set)
	if a.Text != b.Text {
		t.Fatalf("same seed produced different questions: %q vs %q", a.Text, b.Text)
	}
}

func TestSynthesizeSourceArticles(t *testing.T) {
	t.Parallel()

	set := models.HeadlineSet{
		Topic:     models.TopicCricket,
		Headlines: []string{"h1", "h2", "h3", "h4", "h5"},
		Links:     []string{"l1", "l2", "l3", "l4", "l5"},
	}
	d, err := newTestSynthesizer(7).Synthesize(models.TopicCricket, set)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(d.SourceArticles) != 3 || len(d.SourceLinks) != 3 {
		t.Fatalf("sources should be capped at 3, got %d articles %d links", len(d.SourceArticles), len(d.SourceLinks))
	}
	if d.SourceArticles[0] != "h1" || d.SourceLinks[0] != "l1" {
		t.Fatalf("source ordering lost: %v %v", d.SourceArticles, d.SourceLinks)
	}
}

func TestSynthesizeBatchDistinctTexts(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(3)
	drafts, err := s.SynthesizeBatch(models.TopicFootball, headlineSet(models.TopicFootball), 5)
	if err != nil {
		t.Fatalf("SynthesizeBatch returned error: %v", err)
	}
	seen := map[string]struct{}{}
	for _, d := range drafts {
		if _, dup := seen[d.Text]; dup {
			t.Fatalf("duplicate text within one batch: %q", d.Text)
		}
		seen[d.Text] = struct{}{}
	}
}

func TestDistinctSlotPairs(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(9)
	for i := 0; i < 100; i++ {
		d, err := s.Synthesize(models.TopicFootball, headlineSet(models.TopicFootball))
		if err != nil {
			t.Fatalf("Synthesize returned error: %v", err)
		}
		// A pool value appearing twice would show up as the same name on
		// both sides of "versus"/"than"/"or".
		for _, sep := range []string{" versus ", " than ", " or "} {
			parts := strings.Split(d.Text, sep)
			if len(parts) == 2 {
				left := strings.TrimSpace(parts[0])
				right := strings.TrimSpace(parts[1])
				for _, name := range []string{"Erling Haaland", "Manchester City", "Liverpool FC"} {
					if strings.HasSuffix(left, name) && strings.HasPrefix(right, name) {
						t.Fatalf("distinct pair violated in %q", d.Text)
					}
				}
			}
		}
	}
}

func TestFallbackTextsPassValidation(t *testing.T) {
	t.Parallel()

	for topic, text := range fallbackTexts {
		if err := Validate(text); err != nil {
			t.Errorf("fallback for %s fails validation: %q: %v", topic, text, err)
		}
	}
}

func TestValidateRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		ok   bool
	}{
		{"scenario from headlines", "Will Mumbai Indians score more than 250 runs against Chennai Super Kings this weekend?", true},
		{"too short", "Will it rain?", false},
		{"bad lead phrase", "Does Kohli score more than 50 runs tomorrow?", false},
		{"no signal", "Will Mumbai Indians play well tomorrow?", false},
		{"no proper noun", "Will more than 3 goals happen tomorrow?", false},
		{"no time marker", "Will Mumbai Indians score more than 250 runs?", false},
		{"who will lead", "Who will score first, Haaland or Salah, this weekend?", true},
		{"policy signal", "Will Parliament pass the Budget bill tomorrow?", true},
	}
	for _, tc := range cases {
		err := Validate(tc.text)
		if tc.ok && err != nil {
			t.Errorf("%s: expected valid, got %v (%q)", tc.name, err, tc.text)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected rejection for %q", tc.name, tc.text)
		}
	}
}

func TestMaturesAt(t *testing.T) {
	t.Parallel()

	// A Wednesday.
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		text string
		want time.Time
	}{
		{"Will X win tomorrow?", now.Add(24 * time.Hour)},
		{"Will X win this weekend?", time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)},
		{"Will X win next Saturday?", time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)},
		{"Will X win this week?", now.Add(7 * 24 * time.Hour)},
		{"Will X win in the IPL match on Friday?", now.Add(7 * 24 * time.Hour)},
	}
	for _, tc := range cases {
		if got := MaturesAt(tc.text, now); !got.Equal(tc.want) {
			t.Errorf("MaturesAt(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
