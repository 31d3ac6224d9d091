package models

import (
	"time"

	dbtypes "github.com/comdex-official/PRED-AG/internal/db"
)

// Topic is a forecasting category with its own template and entity catalog.
// The set is closed: lookups against it cannot fail at runtime.
type Topic string

const (
	TopicCricket    Topic = "cricket"
	TopicFootball   Topic = "football"
	TopicTechnology Topic = "technology"
	TopicPolitics   Topic = "politics"
)

// Topics lists every supported topic in a stable order.
var Topics = []Topic{TopicCricket, TopicFootball, TopicTechnology, TopicPolitics}

// ParseTopic maps a raw string onto a known topic.
func ParseTopic(s string) (Topic, bool) {
	for _, t := range Topics {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Response is a user's answer to a prediction question.
type Response string

const (
	ResponseYes  Response = "yes"
	ResponseNo   Response = "no"
	ResponseSkip Response = "skip"
)

// ParseResponse validates a raw response value.
func ParseResponse(s string) (Response, bool) {
	switch Response(s) {
	case ResponseYes, ResponseNo, ResponseSkip:
		return Response(s), true
	}
	return "", false
}

// User holds an account and the topics it follows.
type User struct {
	ID        string              `db:"id" json:"id"`
	Username  string              `db:"username" json:"username"`
	Interests dbtypes.StringSlice `db:"interests" json:"interests"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}

// Question is a yes/no forecasting question synthesized from headlines.
// Once resolved, only the resolution fields are ever written, exactly once.
type Question struct {
	ID             string              `db:"id" json:"id"`
	Text           string              `db:"question_text" json:"question"`
	Topic          string              `db:"topic" json:"topic"`
	SourceArticles dbtypes.StringSlice `db:"source_articles" json:"source_articles"`
	SourceLinks    dbtypes.StringSlice `db:"source_links" json:"source_links"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	MaturesAt      time.Time           `db:"matures_at" json:"matures_at"`
	ResolvedAt     *time.Time          `db:"resolved_at" json:"resolved_at,omitempty"`
	Outcome        *bool               `db:"outcome" json:"outcome,omitempty"`
	ResolutionNote *string             `db:"resolution_note" json:"resolution_note,omitempty"`
}

// Resolved reports whether the question has left the pending state.
func (q *Question) Resolved() bool { return q.ResolvedAt != nil }

// Exposure records that a user has been shown a question. The pair
// (UserID, QuestionID) is unique — the at-most-once delivery guarantee.
type Exposure struct {
	UserID     string     `db:"user_id" json:"user_id"`
	QuestionID string     `db:"question_id" json:"question_id"`
	ViewedAt   time.Time  `db:"viewed_at" json:"viewed_at"`
	AnsweredAt *time.Time `db:"answered_at" json:"answered_at,omitempty"`
	Response   *Response  `db:"response" json:"response,omitempty"`
}

// HistoryEntry is a question joined with the viewing user's exposure row.
type HistoryEntry struct {
	Question
	ViewedAt time.Time `db:"viewed_at" json:"viewed_at"`
	Response *Response `db:"response" json:"response,omitempty"`
}

// HeadlineSet carries one topic's scraped headlines with parallel source
// links. Input only; the core never persists it.
type HeadlineSet struct {
	Topic     Topic    `json:"topic"`
	Headlines []string `json:"headlines"`
	Links     []string `json:"links"`
}

// Empty reports whether there is nothing to synthesize from.
func (h HeadlineSet) Empty() bool { return len(h.Headlines) == 0 }
