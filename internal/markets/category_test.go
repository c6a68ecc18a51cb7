package markets

import (
	"testing"

	"github.com/polyscope/insight-engine/internal/raw"
)

func TestCategorize_ByQuestion(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Lakers vs Celtics Game 7", "Sports"},
		{"Bitcoin ETF approval", "Crypto"},
		{"Will Trump win the election?", "Politics"},
		{"Nvidia earnings beat estimates", "Business"},
		{"Will SpaceX Starship reach orbit?", "Science"},
		{"Oscar for best picture 2025", "Entertainment"},
		{"Will it rain in Paris tomorrow?", "Other"},
	}
	for _, tt := range tests {
		got := Categorize(raw.Record{"question": tt.text})
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

// A listing matching several categories resolves by declared order, not by
// keyword count.
func TestCategorize_PrecedenceOrder(t *testing.T) {
	// Sports and Crypto both match: Sports is declared first.
	got := Categorize(raw.Record{"question": "Will the Lakers accept bitcoin bitcoin bitcoin?"})
	if got != "Sports" {
		t.Errorf("expected Sports by declared order, got %s", got)
	}

	// Business and Science both match: Business is declared first.
	got = Categorize(raw.Record{"question": "Microsoft AI revenue milestone"})
	if got != "Business" {
		t.Errorf("expected Business by declared order, got %s", got)
	}
}

func TestCategorize_WordBoundary(t *testing.T) {
	// "ai" must match as a word, not inside e.g. "rain" or "again".
	if got := Categorize(raw.Record{"question": "Will it rain again in Madrid?"}); got == "Science" {
		t.Error(`"ai" substring must not trigger Science`)
	}
	if got := Categorize(raw.Record{"question": "Will AI pass the bar exam?"}); got != "Science" {
		t.Errorf("expected Science for standalone AI, got %s", got)
	}
}

func TestCategorize_TagsAndGroupTitle(t *testing.T) {
	// Plain string tags.
	got := Categorize(raw.Record{"question": "Season outcome", "tags": []any{"NBA"}})
	if got != "Sports" {
		t.Errorf("expected Sports from string tag, got %s", got)
	}

	// Object tags carrying a label.
	got = Categorize(raw.Record{
		"question": "Token listing",
		"tags":     []any{map[string]any{"label": "DeFi"}},
	})
	if got != "Crypto" {
		t.Errorf("expected Crypto from tag label, got %s", got)
	}

	got = Categorize(raw.Record{"groupItemTitle": "Premier League winner"})
	if got != "Sports" {
		t.Errorf("expected Sports from group title, got %s", got)
	}
}

func TestCategoryNames_OrderWithOtherLast(t *testing.T) {
	names := CategoryNames()
	want := []string{"Sports", "Politics", "Crypto", "Business", "Science", "Entertainment", "Other"}
	if len(names) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("category %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}
