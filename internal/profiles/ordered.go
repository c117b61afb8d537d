package profiles

import "github.com/spigell/gitrate/internal/gitrate"

// orderedProfiles is an insertion-ordered map keyed by username.
// Index 0 is the most recently inserted entry.
type orderedProfiles struct {
	keys  []string
	items map[string]gitrate.Rating
}

func newOrderedProfiles(ratings []gitrate.Rating) *orderedProfiles {
	o := &orderedProfiles{
		keys:  make([]string, 0, len(ratings)),
		items: make(map[string]gitrate.Rating, len(ratings)),
	}

	for _, r := range ratings {
		// Stored data may contain duplicates if edited by hand; the first one wins.
		if _, ok := o.items[r.Username]; ok || r.Username == "" {
			continue
		}
		o.keys = append(o.keys, r.Username)
		o.items[r.Username] = r
	}

	return o
}

func (o *orderedProfiles) Len() int { return len(o.keys) }

func (o *orderedProfiles) Has(username string) bool {
	_, ok := o.items[username]
	return ok
}

func (o *orderedProfiles) Get(username string) (gitrate.Rating, bool) {
	r, ok := o.items[username]
	return r, ok
}

// Replace updates an existing entry keeping its position.
func (o *orderedProfiles) Replace(r gitrate.Rating) bool {
	if !o.Has(r.Username) {
		return false
	}
	o.items[r.Username] = r
	return true
}

// PushFront inserts a new entry as the most recent one.
func (o *orderedProfiles) PushFront(r gitrate.Rating) {
	o.keys = append([]string{r.Username}, o.keys...)
	o.items[r.Username] = r
}

// TrimBack evicts the oldest entries until at most limit are left and returns them.
func (o *orderedProfiles) TrimBack(limit int) []string {
	if limit < 0 || len(o.keys) <= limit {
		return nil
	}

	evicted := append([]string(nil), o.keys[limit:]...)
	for _, username := range evicted {
		delete(o.items, username)
	}
	o.keys = o.keys[:limit]

	return evicted
}

func (o *orderedProfiles) Delete(username string) bool {
	if !o.Has(username) {
		return false
	}

	delete(o.items, username)
	for idx, key := range o.keys {
		if key == username {
			o.keys = append(o.keys[:idx], o.keys[idx+1:]...)
			break
		}
	}

	return true
}

// Values returns deep copies in order.
func (o *orderedProfiles) Values() []gitrate.Rating {
	out := make([]gitrate.Rating, 0, len(o.keys))
	for _, key := range o.keys {
		out = append(out, o.items[key].Clone())
	}
	return out
}
