// Package storage implements the local key/value area the stores persist to.
//
// Every consumer sees the area through a context-bound view. Writes through
// one view are announced to every other view as events.TypeStorage events on
// that view's dispatcher, never to the writer itself.
package storage

// Storage is a synchronous string key/value area.
type Storage interface {
	// GetItem returns the value stored under key. Read failures are reported
	// as absence.
	GetItem(key string) (string, bool)
	// SetItem stores value under key.
	SetItem(key, value string) error
}
