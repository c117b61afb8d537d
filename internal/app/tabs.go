package app

import (
	"errors"
	"fmt"

	"github.com/spigell/gitrate/internal/ranking"
)

type Tab int

const (
	TabSearch Tab = iota
	TabSaved
	TabCompare
)

var (
	ErrCompareUnavailable = fmt.Errorf("compare needs at least %d saved profiles", ranking.MinProfiles)
	ErrUnknownTab         = errors.New("unknown tab")
)

func (t Tab) String() string {
	switch t {
	case TabSearch:
		return "Search"
	case TabSaved:
		return "Saved"
	case TabCompare:
		return "Compare"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// Transition validates a move between tabs. Every move is allowed except entering
// Compare with fewer than two saved profiles.
func Transition(from, to Tab, savedCount int) (Tab, error) {
	switch to {
	case TabSearch, TabSaved:
		return to, nil
	case TabCompare:
		if savedCount < ranking.MinProfiles {
			return from, ErrCompareUnavailable
		}
		return to, nil
	default:
		return from, fmt.Errorf("%w: %d", ErrUnknownTab, int(to))
	}
}

// AvailableTabs lists the tabs reachable with savedCount saved profiles.
func AvailableTabs(savedCount int) []Tab {
	tabs := []Tab{TabSearch, TabSaved}
	if savedCount >= ranking.MinProfiles {
		tabs = append(tabs, TabCompare)
	}
	return tabs
}
