package power

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Visibility tracks whether the app is in the foreground. The platform
// reports changes through SetHidden; nothing polls.
type Visibility struct {
	mu     sync.Mutex
	hidden bool
	subs   map[uint64]func(foregrounded bool)
	nextID uint64
}

// NewVisibility starts foregrounded.
func NewVisibility() *Visibility {
	return &Visibility{subs: make(map[uint64]func(bool))}
}

// Foregrounded reports whether the app is currently visible.
func (v *Visibility) Foregrounded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.hidden
}

// SetHidden records a visibility report. Subscribers are told only about
// actual changes.
func (v *Visibility) SetHidden(hidden bool) {
	v.mu.Lock()
	if v.hidden == hidden {
		v.mu.Unlock()
		return
	}
	v.hidden = hidden
	subs := make([]func(bool), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	log.Debug().Bool("foregrounded", !hidden).Msg("visibility changed")

	for _, fn := range subs {
		fn(!hidden)
	}
}

// Subscribe registers fn for visibility changes and returns a function that
// removes it.
func (v *Visibility) Subscribe(fn func(foregrounded bool)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}
