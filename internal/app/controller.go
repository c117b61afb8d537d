// Package app coordinates a search against the rating API with the saved profiles
// and keeps the state the CLI renders.
package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/gitrate/internal/gitrate"
	"github.com/spigell/gitrate/internal/ranking"
)

// ErrSuperseded is returned for a search whose response arrived after a newer search started.
var ErrSuperseded = errors.New("search superseded by a newer one")

type Rater interface {
	RateDeveloper(username string) (*gitrate.Rating, error)
}

type ProfileStore interface {
	List() []gitrate.Rating
	Save(r gitrate.Rating) bool
	IsSaved(username string) bool
	Remove(username string) bool
	ClearAll() bool
}

// View is the state the CLI renders.
type View struct {
	Tab     Tab
	Loading bool
	Error   string
	Current *gitrate.Rating
	Saved   []gitrate.Rating
}

type Controller struct {
	rater    Rater
	store    ProfileStore
	logger   *zap.Logger
	autoSave bool

	mu      sync.Mutex
	seq     uint64
	tab     Tab
	loading bool
	errMsg  string
	current *gitrate.Rating
}

type Option func(*Controller)

// WithAutoSave controls whether successful searches are written to the store.
func WithAutoSave(enabled bool) Option {
	return func(c *Controller) { c.autoSave = enabled }
}

func New(rater Rater, store ProfileStore, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		rater:    rater,
		store:    store,
		logger:   logger,
		autoSave: true,
		tab:      TabSearch,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search rates username and, on success, saves the result. Only the latest search may
// update the view: an older one finishing late gets ErrSuperseded and changes nothing.
func (c *Controller) Search(username string) (View, error) {
	username = strings.TrimSpace(username)

	c.mu.Lock()
	if username == "" {
		c.errMsg = gitrate.UserMessage(gitrate.ErrEmptyUsername)
		view := c.snapshot()
		c.mu.Unlock()
		return view, gitrate.ErrEmptyUsername
	}

	c.seq++
	token := c.seq
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	c.logger.Info("rating developer", zap.String("username", username), zap.Uint64("request", token))

	rating, err := c.rater.RateDeveloper(username)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.seq {
		c.logger.Debug("discarding stale rating response",
			zap.String("username", username),
			zap.Uint64("request", token),
			zap.Uint64("latest", c.seq),
		)
		return c.snapshot(), ErrSuperseded
	}

	c.loading = false

	if err != nil {
		c.current = nil
		c.errMsg = gitrate.UserMessage(err)
		return c.snapshot(), fmt.Errorf("rate %s: %w", username, err)
	}

	if c.autoSave && !c.store.Save(*rating) {
		c.logger.Warn("rating was not saved", zap.String("username", rating.Username))
	}

	current := rating.Clone()
	c.current = &current

	return c.snapshot(), nil
}

// View returns a copy of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// SelectTab moves to tab if the transition is allowed.
func (c *Controller) SelectTab(tab Tab) error {
	saved := len(c.store.List())

	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := Transition(c.tab, tab, saved)
	if err != nil {
		return err
	}

	c.tab = next
	return nil
}

// Compare returns the leaderboard of all saved profiles.
func (c *Controller) Compare() ([]ranking.Entry, error) {
	return ranking.Leaderboard(c.store.List())
}

// SaveCurrent stores the last successful search result.
func (c *Controller) SaveCurrent() bool {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current == nil {
		return false
	}

	return c.store.Save(*current)
}

func (c *Controller) snapshot() View {
	view := View{
		Tab:     c.tab,
		Loading: c.loading,
		Error:   c.errMsg,
		Saved:   c.store.List(),
	}

	if c.current != nil {
		current := c.current.Clone()
		view.Current = &current
	}

	// The store may have shrunk below two profiles since Compare was selected.
	if view.Tab == TabCompare && len(view.Saved) < ranking.MinProfiles {
		view.Tab = TabSaved
	}

	return view
}

// RemoveSaved deletes a saved profile.
func (c *Controller) RemoveSaved(username string) bool {
	return c.store.Remove(username)
}

// ClearSaved deletes every saved profile.
func (c *Controller) ClearSaved() bool {
	return c.store.ClearAll()
}
