package redirect

import "sync"

//go:generate mockgen -source=navigator.go -destination=../mocks/navigator.go -package=mocks

// Navigator is the only way the request layer changes what the user is looking at.
type Navigator interface {
	// Location returns the current path and query.
	Location() string
	Navigate(location string)
}

// History is an in-process Navigator that records every location visited.
type History struct {
	mu         sync.Mutex
	entries    []string
	onNavigate func(location string)
}

// NewHistory starts at start. onNavigate, when set, is called after every navigation.
func NewHistory(start string, onNavigate func(location string)) *History {
	return &History{
		entries:    []string{start},
		onNavigate: onNavigate,
	}
}

func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

func (h *History) Navigate(location string) {
	h.mu.Lock()
	h.entries = append(h.entries, location)
	h.mu.Unlock()

	if h.onNavigate != nil {
		h.onNavigate(location)
	}
}

func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
