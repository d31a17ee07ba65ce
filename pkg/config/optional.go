package config

import "strings"

// Optional holds a value that may be absent from the source document.
// Presence is decided once, when the document is parsed.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present reports whether a value was supplied
func (o Optional[T]) Present() bool {
	return o.ok
}

// OrElse returns the value, or def when absent
func (o Optional[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

// NonBlank returns the string when it is present and not whitespace-only
func NonBlank(o Optional[string]) (string, bool) {
	v, ok := o.Get()
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}
