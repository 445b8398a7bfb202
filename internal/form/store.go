package form

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
)

// ErrSaveInProgress is returned by BeginSave while an earlier save has not
// been resolved.
var ErrSaveInProgress = errors.New("save already in progress")

// Reason says which operation produced a Change.
type Reason int

const (
	ReasonInitialize Reason = iota + 1
	ReasonSnapshot
	ReasonEdit
	ReasonSaveStarted
	ReasonSaveSucceeded
	ReasonSaveFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonInitialize:
		return "initialize"
	case ReasonSnapshot:
		return "snapshot"
	case ReasonEdit:
		return "edit"
	case ReasonSaveStarted:
		return "save-started"
	case ReasonSaveSucceeded:
		return "save-succeeded"
	case ReasonSaveFailed:
		return "save-failed"
	}
	return "unknown"
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	Reason Reason
	Keys   []string // keys whose value or dirtiness changed, sorted
	Err    error    // set for ReasonSaveFailed
}

// Guard is told when the form becomes dirty and when it becomes clean again,
// so callers can warn before discarding unsaved edits.
type Guard interface {
	MarkChanged()
	MarkSaved()
}

// Option configures a Store.
type Option func(*Store)

// WithGuard attaches a navigation guard.
func WithGuard(g Guard) Option {
	return func(s *Store) { s.guard = g }
}

type subscriber struct {
	id int
	fn func(Change)
}

// Store holds editable field values, the set of user-edited ("dirty") keys
// and in-flight save bookkeeping. Incoming server snapshots never overwrite
// dirty keys.
//
// A Store is owned by a single event loop and is not safe for concurrent use.
type Store struct {
	schema Schema
	guard  Guard

	values      FieldSet
	dirty       map[string]struct{}
	hasSnapshot bool

	saving    bool
	submitted FieldSet

	subs   []subscriber
	nextID int
}

// NewStore returns an empty store for schema.
func NewStore(schema Schema, opts ...Option) *Store {
	s := &Store{
		schema: schema,
		values: FieldSet{},
		dirty:  map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the store's schema.
func (s *Store) Schema() Schema { return s.schema }

// Subscribe registers fn to run after every mutation. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

// Initialize resets the form to defaults and forgets all edits and any
// unresolved save. Call it whenever the target site changes.
func (s *Store) Initialize(defaults FieldSet) {
	wasDirty := len(s.dirty) > 0
	normalized, dropped := s.schema.Normalize(defaults)
	if len(dropped) > 0 {
		slog.Debug("form defaults dropped unknown keys", "keys", dropped)
	}
	keys := slices.Sorted(maps.Keys(unionKeys(s.values, normalized)))

	s.values = normalized
	s.dirty = map[string]struct{}{}
	s.hasSnapshot = false
	s.saving = false
	s.submitted = nil

	if wasDirty && s.guard != nil {
		s.guard.MarkSaved()
	}
	s.notify(Change{Reason: ReasonInitialize, Keys: keys})
}

// ApplySnapshot merges a server snapshot. Keys the user has edited keep
// their local value; every other key present in snapshot takes the
// snapshot's value; keys absent from snapshot are left alone. Unknown or
// malformed entries are skipped. It returns the keys whose value changed.
func (s *Store) ApplySnapshot(snapshot FieldSet) []string {
	s.hasSnapshot = true
	var changed []string
	for key, raw := range snapshot {
		if _, dirty := s.dirty[key]; dirty {
			continue
		}
		v, err := s.schema.Coerce(key, raw)
		if err != nil {
			slog.Debug("snapshot field skipped", "key", key, "error", err)
			continue
		}
		if cur, ok := s.values[key]; ok && cur == v {
			continue
		}
		s.values[key] = v
		changed = append(changed, key)
	}
	if len(changed) == 0 {
		return nil
	}
	slices.Sort(changed)
	s.notify(Change{Reason: ReasonSnapshot, Keys: changed})
	return changed
}

// SetField records a user edit: the value is stored and key becomes dirty.
func (s *Store) SetField(key string, raw any) error {
	f, ok := s.schema.Lookup(key)
	if !ok {
		return s.unknown(key)
	}
	if f.ReadOnly {
		return &FieldError{Key: key, Err: ErrReadOnlyField}
	}
	v, err := s.schema.Coerce(key, raw)
	if err != nil {
		return err
	}
	wasClean := len(s.dirty) == 0
	s.values[key] = v
	s.dirty[key] = struct{}{}
	if wasClean && s.guard != nil {
		s.guard.MarkChanged()
	}
	s.notify(Change{Reason: ReasonEdit, Keys: []string{key}})
	return nil
}

// Matches reports whether raw, coerced to key's kind, equals the current
// value. Callers use it to skip re-entering a stored value in another
// spelling ("1" for true).
func (s *Store) Matches(key string, raw any) bool {
	v, err := s.schema.Coerce(key, raw)
	if err != nil {
		return false
	}
	cur, ok := s.values[key]
	return ok && cur == v
}

// CurrentState returns a copy of the merged form values.
func (s *Store) CurrentState() FieldSet {
	return s.values.Clone()
}

// BeginSave returns the full current state for submission and marks a save
// as in flight. DirtySet is untouched until OnSaveSucceeded.
func (s *Store) BeginSave() (FieldSet, error) {
	if s.saving {
		return nil, ErrSaveInProgress
	}
	s.saving = true
	s.submitted = s.values.Clone()
	s.notify(Change{Reason: ReasonSaveStarted})
	return s.submitted.Clone(), nil
}

// OnSaveSucceeded clears the dirty keys that were persisted by the save.
// A key edited again while the save was in flight keeps its dirty mark
// unless the new value equals the one that was submitted.
// It is a no-op when no save is in flight.
func (s *Store) OnSaveSucceeded() {
	if !s.saving {
		return
	}
	var cleared []string
	for key := range s.dirty {
		sent, ok := s.submitted[key]
		if ok && sent == s.values[key] {
			delete(s.dirty, key)
			cleared = append(cleared, key)
		}
	}
	s.saving = false
	s.submitted = nil
	slices.Sort(cleared)
	if len(cleared) > 0 && len(s.dirty) == 0 && s.guard != nil {
		s.guard.MarkSaved()
	}
	s.notify(Change{Reason: ReasonSaveSucceeded, Keys: cleared})
}

// OnSaveFailed ends the in-flight save without touching values or dirty
// keys, and returns err for reporting.
func (s *Store) OnSaveFailed(err error) error {
	if !s.saving {
		return err
	}
	s.saving = false
	s.submitted = nil
	s.notify(Change{Reason: ReasonSaveFailed, Err: err})
	return err
}

// Value returns the current value for key.
func (s *Store) Value(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// IsDirty reports whether key has unsaved edits.
func (s *Store) IsDirty(key string) bool {
	_, ok := s.dirty[key]
	return ok
}

// DirtyKeys returns the dirty keys in sorted order.
func (s *Store) DirtyKeys() []string {
	return slices.Sorted(maps.Keys(s.dirty))
}

// Dirty reports whether any key has unsaved edits.
func (s *Store) Dirty() bool { return len(s.dirty) > 0 }

// Saving reports whether a save is in flight.
func (s *Store) Saving() bool { return s.saving }

// HasSnapshot reports whether a snapshot arrived since the last Initialize.
func (s *Store) HasSnapshot() bool { return s.hasSnapshot }

func (s *Store) notify(c Change) {
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(c)
	}
}

func (s *Store) unknown(key string) error {
	return &FieldError{Key: key, Err: ErrUnknownField}
}

// FieldError ties an error to the key that caused it.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string { return "field " + e.Key + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

func unionKeys(a, b FieldSet) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
