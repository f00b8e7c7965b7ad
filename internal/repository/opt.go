package repository

import "go.mongodb.org/mongo-driver/bson"

// Opt is a tri-state update field: absent from the partial update, set
// to a value, or explicitly cleared to null. Partial bed updates need
// the distinction because clearing seed_id or end_at is a meaningful
// write, not the same as leaving the field alone.
type Opt[T any] struct {
	present bool
	null    bool
	value   T
}

// Set returns an Opt carrying v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{present: true, value: v}
}

// Null returns an Opt that clears the field to null.
func Null[T any]() Opt[T] {
	return Opt[T]{present: true, null: true}
}

// Get reports the field's state: its value, whether it clears to
// null, and whether it appears in the update at all.
func (o Opt[T]) Get() (value T, null bool, present bool) {
	return o.value, o.null, o.present
}

// putOpt writes the field into doc under key: the value when set, an
// explicit nil when cleared, nothing when absent.
func putOpt[T any](doc bson.M, key string, o Opt[T]) {
	if !o.present {
		return
	}
	if o.null {
		doc[key] = nil
		return
	}
	doc[key] = o.value
}
