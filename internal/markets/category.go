// Package markets classifies catalog listings into topic categories and
// derives pricing-friction statistics over them. Like the ledger package,
// everything here is a pure transformation over already-fetched records.
package markets

import (
	"regexp"
	"strings"

	"github.com/polyscope/insight-engine/internal/raw"
)

// CategoryOther is assigned when no pattern set matches.
const CategoryOther = "Other"

// category pairs a label with its keyword pattern set. The inventory is a
// configuration artifact: extending a pattern set does not change the
// classification algorithm.
type category struct {
	name    string
	pattern *regexp.Regexp
}

// categories is evaluated in order and the FIRST match wins. The order is
// the disambiguation policy for listings that plausibly match several
// categories (a market on a company's AI product matches both Business and
// Science), so it must not be reordered casually.
var categories = []category{
	{"Sports", regexp.MustCompile(`knicks|lakers|celtics|warriors|bulls|heat|nets|76ers|suns|mavericks|bucks|clippers|spurs|cowboys|eagles|chiefs|49ers|bills|ravens|yankees|dodgers|braves|man city|man united|liverpool|chelsea|arsenal|real madrid|barcelona|bayern|juventus|psg|nba|nfl|nhl|mlb|ufc|mma|premier league|champions league|la liga|bundesliga|serie a|super bowl|playoffs|finals|championship|mvp`)},
	{"Politics", regexp.MustCompile(`trump|biden|harris|obama|desantis|president|election|vote|senate|congress|governor|democrat|republican|politic|ukraine|russia|china|israel|gaza|white house|electoral`)},
	{"Crypto", regexp.MustCompile(`bitcoin|btc|ethereum|eth|solana|sol|xrp|doge|cardano|polygon|avalanche|chainlink|crypto|defi|nft|token|blockchain|binance|coinbase|etf.*bitcoin|bitcoin.*etf|halving|airdrop|microstrategy`)},
	{"Business", regexp.MustCompile(`tesla|apple|amazon|google|meta|microsoft|nvidia|stock|nasdaq|nyse|dow|s&p|ipo|earnings|revenue|profit|merger|acquisition|ceo|inflation|recession|gdp|fed|federal reserve|interest rate|economy`)},
	{"Science", regexp.MustCompile(`\bai\b|artificial intelligence|gpt|chatgpt|claude|llm|spacex|starship|nasa|space|quantum|medicine|drug|fda|vaccine|agi|robot`)},
	{"Entertainment", regexp.MustCompile(`movie|film|oscar|emmy|grammy|album|spotify|netflix|disney|streaming|actor|celebrity|taylor swift|beyonce|youtube|tiktok|gaming|esports|fortnite|minecraft|marvel`)},
}

// CategoryNames returns every category label in declared order, Other last.
func CategoryNames() []string {
	names := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		names = append(names, c.name)
	}
	return append(names, CategoryOther)
}

// Categorize assigns one category to a listing by matching its concatenated
// text fields against the ordered pattern sets.
func Categorize(listing raw.Record) string {
	blob := strings.ToLower(textBlob(listing))
	for _, c := range categories {
		if c.pattern.MatchString(blob) {
			return c.name
		}
	}
	return CategoryOther
}

// textBlob joins question, title, description, tag labels, and group title.
// Tags arrive either as plain strings or as objects carrying a label.
func textBlob(listing raw.Record) string {
	parts := []string{
		raw.String(listing, "question"),
		raw.String(listing, "title"),
		raw.String(listing, "description"),
		raw.String(listing, "groupItemTitle"),
	}
	if tags, ok := listing["tags"].([]any); ok {
		for _, tag := range tags {
			switch t := tag.(type) {
			case string:
				parts = append(parts, t)
			case map[string]any:
				parts = append(parts, raw.String(raw.Record(t), "label"))
			}
		}
	}
	return strings.Join(parts, " ")
}
