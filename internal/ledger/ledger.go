// Package ledger records which source URLs have already been downloaded.
package ledger

import "context"

// Store loads and persists a Ledger.
type Store interface {
	// Load returns the persisted ledger, or an empty one if none exists yet.
	Load(ctx context.Context) (*Ledger, error)
	// Save overwrites the persisted ledger with l.
	Save(ctx context.Context, l *Ledger) error
}

// Ledger is an ordered, duplicate-free list of downloaded source URLs.
//
// Not safe for concurrent use.
type Ledger struct {
	urls []string
	seen map[string]struct{}
}

// New returns a ledger holding urls in order, dropping repeats.
func New(urls ...string) *Ledger {
	l := &Ledger{
		urls: make([]string, 0, len(urls)),
		seen: make(map[string]struct{}, len(urls)),
	}
	for _, u := range urls {
		l.Add(u)
	}
	return l
}

// Contains reports whether url is recorded (exact match).
func (l *Ledger) Contains(url string) bool {
	_, ok := l.seen[url]
	return ok
}

// Add appends url if absent and reports whether the ledger changed.
func (l *Ledger) Add(url string) bool {
	if l.Contains(url) {
		return false
	}
	l.seen[url] = struct{}{}
	l.urls = append(l.urls, url)
	return true
}

// Remove drops url and reports whether the ledger changed.
func (l *Ledger) Remove(url string) bool {
	if !l.Contains(url) {
		return false
	}
	delete(l.seen, url)
	for i, u := range l.urls {
		if u == url {
			l.urls = append(l.urls[:i], l.urls[i+1:]...)
			break
		}
	}
	return true
}

// URLs returns a copy of the recorded URLs in insertion order.
func (l *Ledger) URLs() []string {
	out := make([]string, len(l.urls))
	copy(out, l.urls)
	return out
}

// Len returns the number of recorded URLs.
func (l *Ledger) Len() int {
	return len(l.urls)
}
