// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sets implements the sets used while walking tensor-expression graphs.
package sets

import "slices"

// Set of comparable keys, as a map[T]struct{}.
type Set[T comparable] map[T]struct{}

// Make returns an empty Set. Size is optional and reserves room for that many keys.
func Make[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// Has returns whether key is in the set.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert adds key to the set. It returns false if key was already there.
func (s Set[T]) Insert(key T) bool {
	if s.Has(key) {
		return false
	}
	s[key] = struct{}{}
	return true
}

// Ordered is a set that remembers the order in which keys were first inserted.
//
// The zero value is an empty set, ready to use.
type Ordered[T comparable] struct {
	index Set[T]
	keys  []T
}

// Insert adds key, if not yet present. It returns false if key was already there.
func (o *Ordered[T]) Insert(key T) bool {
	if o.index == nil {
		o.index = Make[T]()
	}
	if !o.index.Insert(key) {
		return false
	}
	o.keys = append(o.keys, key)
	return true
}

// Has returns whether key is in the set.
func (o *Ordered[T]) Has(key T) bool { return o.index.Has(key) }

// Len returns the number of keys.
func (o *Ordered[T]) Len() int { return len(o.keys) }

// Keys returns a copy of the keys, in order of first insertion.
func (o *Ordered[T]) Keys() []T { return slices.Clone(o.keys) }
