package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	dbtypes "github.com/comdex-official/PRED-AG/internal/db"
	"github.com/comdex-official/PRED-AG/internal/resolve"
	"github.com/comdex-official/PRED-AG/internal/store"
	"github.com/comdex-official/PRED-AG/internal/synth"
	"github.com/comdex-official/PRED-AG/pkg/models"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrNoInterests  = errors.New("service: user has no interests set")
	ErrNoQuestions  = errors.New("service: no question available for this topic right now")
	ErrUserNotFound = errors.New("service: user not found")
)

// evidenceWindow bounds the recency of snippets used for resolution.
const evidenceWindow = 48 * time.Hour

// QuestionStore is the storage contract the service depends on.
type QuestionStore interface {
	CreateUser(ctx context.Context, username string, interests []string) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	UpdateInterests(ctx context.Context, userID string, interests []string) error

	SaveQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	QuestionsByIDs(ctx context.Context, ids []string) ([]*models.Question, error)
	ListPending(ctx context.Context, now time.Time) ([]*models.Question, error)
	MarkResolved(ctx context.Context, id string, outcome bool, note string) error

	UnseenMany(ctx context.Context, topic string, userID string, n int) ([]*models.Question, error)
	RecordExposure(ctx context.Context, userID, questionID string) error
	RecordResponse(ctx context.Context, userID, questionID string, response models.Response) error
	History(ctx context.Context, userID string, topic string) ([]*models.HistoryEntry, error)
}

// HeadlineSource supplies per-topic headlines.
type HeadlineSource interface {
	FetchHeadlines(ctx context.Context, topic models.Topic) (models.HeadlineSet, error)
}

// EvidenceSearcher fetches resolution evidence snippets.
type EvidenceSearcher interface {
	Search(ctx context.Context, entities []string, window time.Duration) ([]string, error)
}

// HeadlineCache holds scraped headline sets for the cooldown window, so the
// sources are not hit again while a cached set is fresh. A miss is reported
// as an error.
type HeadlineCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisHeadlineCache backs HeadlineCache with Redis.
type RedisHeadlineCache struct {
	rdb *redis.Client
}

func NewRedisHeadlineCache(rdb *redis.Client) *RedisHeadlineCache {
	return &RedisHeadlineCache{rdb: rdb}
}

func (c *RedisHeadlineCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.rdb.Get(ctx, key).Bytes()
}

func (c *RedisHeadlineCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

type Service struct {
	repo     QuestionStore
	cache    HeadlineCache
	scraper  HeadlineSource
	evidence EvidenceSearcher
	synth    *synth.Synthesizer
	engine   *resolve.Engine
	cooldown time.Duration
	log      *logrus.Entry
}

// NewService wires the question lifecycle engine. cache may be nil, which
// disables the scrape cooldown cache.
func NewService(repo QuestionStore, cache HeadlineCache, scraper HeadlineSource, evidence EvidenceSearcher, s *synth.Synthesizer, engine *resolve.Engine, cooldown time.Duration, log *logrus.Entry) *Service {
	if cooldown <= 0 {
		cooldown = time.Hour
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		scraper:  scraper,
		evidence: evidence,
		synth:    s,
		engine:   engine,
		cooldown: cooldown,
		log:      log,
	}
}

// RegisterUser creates the user or updates the interests of an existing one.
func (s *Service) RegisterUser(ctx context.Context, username string, interests []string) (*models.User, bool, error) {
	existing, err := s.repo.GetUser(ctx, username)
	if err == nil {
		if len(interests) > 0 {
			if err := s.repo.UpdateInterests(ctx, existing.ID, interests); err != nil {
				return nil, false, fmt.Errorf("update interests: %w", err)
			}
			existing.Interests = dbtypes.StringSlice(interests)
		}
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}
	u, err := s.repo.CreateUser(ctx, username, interests)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// FreshQuestions delivers up to count questions the user has never seen,
// serving stored unseen questions round-robin across the user's interests
// first and synthesizing new ones from fresh headlines when the stored pool
// runs dry. Every delivered question gets an exposure row before it is
// returned.
func (s *Service) FreshQuestions(ctx context.Context, username string, count int) ([]*models.Question, error) {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if len(user.Interests) == 0 {
		return nil, ErrNoInterests
	}

	topics := make([]models.Topic, 0, len(user.Interests))
	for _, interest := range user.Interests {
		if topic, ok := models.ParseTopic(interest); ok {
			topics = append(topics, topic)
		}
	}
	if len(topics) == 0 {
		return nil, ErrNoQuestions
	}

	delivered := make([]*models.Question, 0, count)
	seenTexts := map[string]struct{}{}

	stored := map[models.Topic][]*models.Question{}
	for _, topic := range topics {
		qs, err := s.repo.UnseenMany(ctx, string(topic), user.ID, count)
		if err != nil {
			s.log.WithField("topic", topic).Warnf("unseen lookup failed: %v", err)
			continue
		}
		stored[topic] = qs
	}

	for len(delivered) < count {
		progressed := false
		for _, topic := range topics {
			if len(delivered) >= count {
				break
			}
			q, rest := s.takeStored(ctx, user, stored[topic], seenTexts)
			stored[topic] = rest
			if q == nil {
				continue
			}
			seenTexts[q.Text] = struct{}{}
			delivered = append(delivered, q)
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Synthesize the remainder from fresh headlines.
	for i := 0; len(delivered) < count && i < count*len(topics); i++ {
		topic := topics[i%len(topics)]
		q, err := s.synthesizeFor(ctx, topic, user, seenTexts)
		if err != nil {
			if errors.Is(err, synth.ErrNoArticles) {
				continue
			}
			// Storage errors are recoverable: move on to other topics.
			s.log.WithField("topic", topic).Warnf("fresh question failed: %v", err)
			continue
		}
		if q == nil {
			continue
		}
		seenTexts[q.Text] = struct{}{}
		delivered = append(delivered, q)
	}

	if len(delivered) == 0 {
		return nil, ErrNoQuestions
	}
	return delivered, nil
}

// takeStored pops the first deliverable question off the stored queue,
// recording its exposure. Duplicate texts and failed exposure writes are
// skipped.
func (s *Service) takeStored(ctx context.Context, user *models.User, queue []*models.Question, seenTexts map[string]struct{}) (*models.Question, []*models.Question) {
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		if _, dup := seenTexts[q.Text]; dup {
			continue
		}
		if err := s.repo.RecordExposure(ctx, user.ID, q.ID); err != nil {
			s.log.WithField("question", q.ID).Warnf("record exposure failed: %v", err)
			continue
		}
		return q, queue
	}
	return nil, queue
}

// synthesizeFor builds, persists and exposes one new question for the topic.
func (s *Service) synthesizeFor(ctx context.Context, topic models.Topic, user *models.User, seenTexts map[string]struct{}) (*models.Question, error) {
	set, err := s.headlines(ctx, topic)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, synth.ErrNoArticles
	}

	draft, err := s.synth.Synthesize(topic, set)
	if err != nil {
		return nil, err
	}
	if _, dup := seenTexts[draft.Text]; dup {
		return nil, nil
	}

	now := time.Now().UTC()
	q := &models.Question{
		Text:           draft.Text,
		Topic:          string(topic),
		SourceArticles: dbtypes.StringSlice(draft.SourceArticles),
		SourceLinks:    dbtypes.StringSlice(draft.SourceLinks),
		CreatedAt:      now,
		MaturesAt:      synth.MaturesAt(draft.Text, now),
	}
	if err := s.repo.SaveQuestion(ctx, q); err != nil {
		return nil, err
	}
	if err := s.repo.RecordExposure(ctx, user.ID, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// headlines fetches a topic's headline set through the cooldown cache:
// scraped results are reused for the cooldown window before the sources are
// hit again.
func (s *Service) headlines(ctx context.Context, topic models.Topic) (models.HeadlineSet, error) {
	key := "headlines:" + string(topic)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached models.HeadlineSet
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	set, err := s.scraper.FetchHeadlines(ctx, topic)
	if err != nil {
		return models.HeadlineSet{Topic: topic}, err
	}

	if s.cache != nil && !set.Empty() {
		if raw, err := json.Marshal(set); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cooldown); err != nil {
				s.log.Warnf("headline cache write failed: %v", err)
			}
		}
	}
	return set, nil
}

// Questions fetches a batch of questions by id, for clients polling the
// resolution status of previously delivered questions.
func (s *Service) Questions(ctx context.Context, ids []string) ([]*models.Question, error) {
	return s.repo.QuestionsByIDs(ctx, ids)
}

// History returns the user's viewed questions, optionally filtered by topic.
func (s *Service) History(ctx context.Context, username string, topic string) ([]*models.HistoryEntry, error) {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.repo.History(ctx, user.ID, topic)
}

// RecordResponse stores the user's answer to a question. The question must
// exist; store.ErrNotFound surfaces for an unknown id.
func (s *Service) RecordResponse(ctx context.Context, username, questionID string, response models.Response) error {
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.repo.GetQuestion(ctx, questionID); err != nil {
		return err
	}
	return s.repo.RecordResponse(ctx, user.ID, questionID, response)
}

// PendingQuestions lists matured questions still awaiting resolution.
func (s *Service) PendingQuestions(ctx context.Context) ([]*models.Question, error) {
	return s.repo.ListPending(ctx, time.Now().UTC())
}

// ResolveManually overrides the engine for one question.
func (s *Service) ResolveManually(ctx context.Context, questionID string, outcome bool, note string) error {
	return s.repo.MarkResolved(ctx, questionID, outcome, note)
}

// SweepOnce runs one resolution pass over every matured pending question.
// Failures are isolated per question: an evidence fetch error or analyzer
// panic is logged and the question stays pending for the next sweep.
func (s *Service) SweepOnce(ctx context.Context) (resolved int, err error) {
	pending, err := s.repo.ListPending(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	for _, q := range pending {
		if s.resolveOne(ctx, q) {
			resolved++
		}
	}

	s.log.WithFields(logrus.Fields{"pending": len(pending), "resolved": resolved}).Info("resolution sweep finished")
	return resolved, nil
}

func (s *Service) resolveOne(ctx context.Context, q *models.Question) (committed bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("question", q.ID).Errorf("resolution panicked: %v", r)
			committed = false
		}
	}()

	rc := resolve.BuildContext(q.Text)
	if len(rc.Entities) == 0 {
		return false
	}

	snippets, err := s.evidence.Search(ctx, rc.Entities, evidenceWindow)
	if err != nil {
		s.log.WithField("question", q.ID).Warnf("evidence search failed: %v", err)
		return false
	}

	res := s.engine.ResolveOnce(q, snippets)
	if res.Outcome == nil {
		return false
	}
	if err := s.repo.MarkResolved(ctx, q.ID, *res.Outcome, res.Note); err != nil {
		s.log.WithField("question", q.ID).Warnf("mark resolved failed: %v", err)
		return false
	}
	return true
}
