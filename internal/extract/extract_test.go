package extract

import (
	"reflect"
	"sort"
	"testing"
)

func TestFromHeadlinesTeams(t *testing.T) {
	t.Parallel()

	got := FromHeadlines([]string{"Mumbai Indians beat Chennai Super Kings by 20 runs"})

	want := []string{"Chennai Super Kings", "Mumbai Indians"}
	sort.Strings(got.Teams)
	if !reflect.DeepEqual(got.Teams, want) {
		t.Fatalf("teams = %v, want %v", got.Teams, want)
	}
	if len(got.Players) != 0 {
		t.Fatalf("unexpected players: %v", got.Players)
	}
}

func TestFromHeadlinesPlayers(t *testing.T) {
	t.Parallel()

	got := FromHeadlines([]string{
		"Virat Kohli scores brilliant century against Australia",
		"Haaland hits hat-trick as Manchester City cruise",
	})

	hasPlayer := func(name string) bool {
		for _, p := range got.Players {
			if p == name {
				return true
			}
		}
		return false
	}
	if !hasPlayer("Virat Kohli") {
		t.Errorf("multi-word name should classify as player, got %v", got.Players)
	}
	if !hasPlayer("Haaland") {
		t.Errorf("single name with action context should classify as player, got %v", got.Players)
	}
	if len(got.Teams) != 1 || got.Teams[0] != "Manchester City" {
		t.Errorf("teams = %v, want [Manchester City]", got.Teams)
	}
}

func TestFromHeadlinesTournamentBeforeTeam(t *testing.T) {
	t.Parallel()

	// "Premier League" contains no team indicator but even if it did, the
	// tournament rule must win by precedence.
	got := FromHeadlines([]string{"Premier League title race heats up"})
	if len(got.Tournaments) != 1 || got.Tournaments[0] != "Premier League" {
		t.Fatalf("tournaments = %v, want [Premier League]", got.Tournaments)
	}
	if len(got.Teams) != 0 {
		t.Fatalf("unexpected teams: %v", got.Teams)
	}
}

func TestFromHeadlinesDropsAmbiguous(t *testing.T) {
	t.Parallel()

	// "Wins" starts a sentence capitalized but has no role context and is a
	// single short token without classification signals.
	got := FromHeadlines([]string{"Big day ahead"})
	if len(got.Players)+len(got.Teams)+len(got.Tournaments) != 0 {
		t.Fatalf("expected no entities, got %+v", got)
	}
}

func TestFromHeadlinesStopWordsAndDedup(t *testing.T) {
	t.Parallel()

	got := FromHeadlines([]string{
		"The Mumbai Indians won on Tuesday",
		"Mumbai Indians celebrate in April",
	})
	if len(got.Teams) != 1 || got.Teams[0] != "Mumbai Indians" {
		t.Fatalf("teams = %v, want single Mumbai Indians", got.Teams)
	}
	for _, set := range [][]string{got.Players, got.Tournaments} {
		for _, name := range set {
			if name == "Tuesday" || name == "April" || name == "The" {
				t.Fatalf("stop word leaked into entities: %q", name)
			}
		}
	}
}

func TestFromHeadlinesDeterministic(t *testing.T) {
	t.Parallel()

	headlines := []string{
		"Liverpool FC sign new striker before Champions League tie",
		"Rohit Sharma leads Mumbai Indians to victory",
	}
	first := FromHeadlines(headlines)
	second := FromHeadlines(headlines)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not deterministic: %+v vs %+v", first, second)
	}
}
