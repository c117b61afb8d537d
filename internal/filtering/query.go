package filtering

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spigell/gitrate/internal/gitrate"
)

type SortKey string

type SortOrder string

const (
	SortByScore SortKey = "score"
	SortByName  SortKey = "name"
	SortByDate  SortKey = "date"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)

func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortByScore, SortByName, SortByDate:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case Ascending, Descending:
		return order, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

// Counts holds the number of ratings per tier.
type Counts struct {
	ByTier map[gitrate.Tier]int
	Total  int
}

// FilterByTier keeps ratings of the given tier. TierAll keeps everything.
// The input is never modified.
func FilterByTier(results []gitrate.Rating, tier gitrate.Tier) []gitrate.Rating {
	out := make([]gitrate.Rating, 0, len(results))
	for _, r := range results {
		if tier == gitrate.TierAll || r.Tier == tier {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a sorted copy. The sort is stable: ties keep their input order for both
// directions.
func Sort(results []gitrate.Rating, key SortKey, order SortOrder) ([]gitrate.Rating, error) {
	if order != Ascending && order != Descending {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortOrder, order)
	}

	var compare func(a, b *gitrate.Rating) int
	switch key {
	case SortByScore:
		compare = func(a, b *gitrate.Rating) int {
			return compareFloat(a.FinalScore, b.FinalScore)
		}
	case SortByName:
		collator := collate.New(language.English, collate.IgnoreCase)
		compare = func(a, b *gitrate.Rating) int {
			return collator.CompareString(a.Name(), b.Name())
		}
	case SortByDate:
		compare = func(a, b *gitrate.Rating) int {
			return a.SavedTime().Compare(b.SavedTime())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}

	out := append([]gitrate.Rating(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(&out[i], &out[j])
		if order == Descending {
			c = -c
		}
		return c < 0
	})

	return out, nil
}

// TierCounts counts ratings per known tier. Ratings with an unknown tier only count
// toward the total.
func TierCounts(results []gitrate.Rating) Counts {
	counts := Counts{ByTier: make(map[gitrate.Tier]int, len(gitrate.Tiers()))}
	for _, t := range gitrate.Tiers() {
		counts.ByTier[t] = 0
	}

	for _, r := range results {
		if _, ok := counts.ByTier[r.Tier]; ok {
			counts.ByTier[r.Tier]++
		}
		counts.Total++
	}

	return counts
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
