// Package catalog owns the per-topic question templates, curated entity
// pools and fixture calendars used by the synthesizer. The topic set is
// closed, so Get never fails for a models.Topic value.
package catalog

import (
	"github.com/comdex-official/PRED-AG/pkg/models"
)

// Template is a parameterized question with named slots in {braces}.
type Template struct {
	ID   string
	Text string
}

// Fixture is a scheduled match from a topic's event calendar. When the
// synthesizer picks a fixture time reference, the fixture's teams override
// the pool-drawn team slots.
type Fixture struct {
	Tournament string
	Date       string
	Home       string
	Away       string
}

// Entry is one topic's full generation catalog.
type Entry struct {
	Templates []Template
	Players   []string
	Teams     []string
	// Words holds curated pools for topic-specific string slots such as
	// company, product, party or bill.
	Words map[string][]string
	// Numbers holds candidate values for numeric slots such as runs or goals.
	Numbers map[string][]int
	// TimePhrases is the fixed enumerated time-reference set for the topic.
	TimePhrases []string
	Fixtures    []Fixture
}

var timePhrases = []string{"tomorrow", "this weekend", "next Saturday", "this week"}

var entries = map[models.Topic]Entry{
	models.TopicCricket: {
		Templates: []Template{
			{ID: "cricket-runs", Text: "Will {team} score more than {runs} runs against {opponent} {time}?"},
			{ID: "cricket-century", Text: "Will {player} score a century before {opponent_player} {time}?"},
			{ID: "cricket-win", Text: "Can {team} win the match versus {opponent} {time}?"},
			{ID: "cricket-wickets", Text: "Will {player} take more than {wickets} wickets {time}?"},
			{ID: "cricket-both", Text: "Will both {player} and {opponent_player} score a fifty {time}?"},
		},
		Players: []string{"Virat Kohli", "Rohit Sharma", "Jasprit Bumrah", "Shubman Gill", "Ravindra Jadeja", "Hardik Pandya"},
		Teams:   []string{"Mumbai Indians", "Chennai Super Kings", "Royal Challengers Bangalore", "Kolkata Knight Riders", "Delhi Capitals", "Gujarat Titans"},
		Numbers: map[string][]int{
			"runs":    {150, 180, 200, 220, 250},
			"wickets": {2, 3, 4},
		},
		TimePhrases: timePhrases,
		Fixtures: []Fixture{
			{Tournament: "IPL", Date: "Saturday", Home: "Mumbai Indians", Away: "Chennai Super Kings"},
			{Tournament: "IPL", Date: "Sunday", Home: "Gujarat Titans", Away: "Delhi Capitals"},
		},
	},
	models.TopicFootball: {
		Templates: []Template{
			{ID: "football-goals", Text: "Will {team} score more than {goals} goals against {opponent} {time}?"},
			{ID: "football-win", Text: "Can {team} win versus {opponent} {time}?"},
			{ID: "football-scorer", Text: "Will {player} score more goals than {opponent_player} {time}?"},
			{ID: "football-first", Text: "Who will score first, {player} or {opponent_player}, {time}?"},
			{ID: "football-both", Text: "Will both {player} and {opponent_player} score {time}?"},
		},
		Players: []string{"Erling Haaland", "Kylian Mbappe", "Mohamed Salah", "Jude Bellingham", "Harry Kane", "Bukayo Saka"},
		Teams:   []string{"Manchester City", "Liverpool FC", "Arsenal FC", "Real Madrid", "Bayern Munich", "Inter Milan"},
		Numbers: map[string][]int{
			"goals": {1, 2, 3},
		},
		TimePhrases: timePhrases,
		Fixtures: []Fixture{
			{Tournament: "Premier League", Date: "Saturday", Home: "Manchester City", Away: "Liverpool FC"},
			{Tournament: "Champions League", Date: "Wednesday", Home: "Real Madrid", Away: "Bayern Munich"},
		},
	},
	models.TopicTechnology: {
		Templates: []Template{
			{ID: "tech-launch", Text: "Will {company} launch {product} {time}?"},
			{ID: "tech-users", Text: "Will {company} reach more than {users} million users {time}?"},
			{ID: "tech-revenue", Text: "Will {company} report more than {revenue} billion in revenue {time}?"},
			{ID: "tech-race", Text: "Will {company} announce {product} before {opponent_company} {time}?"},
		},
		Words: map[string][]string{
			"company":          {"Apple", "Google", "Microsoft", "OpenAI", "Samsung", "Tesla"},
			"opponent_company": {"Apple", "Google", "Microsoft", "OpenAI", "Samsung", "Tesla"},
			"product":          {"iPhone 17", "Pixel 10", "GPT-5", "Galaxy S26", "Vision Pro 2"},
		},
		Numbers: map[string][]int{
			"users":   {100, 200, 500},
			"revenue": {10, 25, 50, 100},
		},
		TimePhrases: timePhrases,
	},
	models.TopicPolitics: {
		Templates: []Template{
			{ID: "politics-bill", Text: "Will {chamber} pass the {bill} bill {time}?"},
			{ID: "politics-votes", Text: "Will the {bill} bill get more than {votes} votes {time}?"},
			{ID: "politics-approval", Text: "Will {leader} reach more than {approval} percent approval {time}?"},
		},
		Words: map[string][]string{
			"chamber": {"Parliament", "the Senate", "Congress", "the Lok Sabha"},
			"bill":    {"Budget", "Climate", "Privacy", "Immigration", "Education"},
			"leader":  {"the President", "the Prime Minister", "the Chancellor"},
		},
		Numbers: map[string][]int{
			"votes":    {200, 250, 300},
			"approval": {40, 45, 50, 55},
		},
		TimePhrases: timePhrases,
	},
}

// Get returns the generation catalog for a topic. ok is false only for
// topics outside the closed set.
func Get(topic models.Topic) (Entry, bool) {
	e, ok := entries[topic]
	return e, ok
}
