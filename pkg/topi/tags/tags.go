// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tags lists the operator-pattern tags attached to compute operations.
//
// Scheduling passes use the tag of a tensor to pick a strategy, e.g. inlining element-wise
// and broadcast operations into their consumers.
package tags

import "strings"

const (
	// Elemwise marks operations where each output element depends only on the input element at the same index.
	Elemwise = "elemwise"

	// Broadcast marks operations that read inputs of lower rank broadcast over the output.
	Broadcast = "broadcast"

	// Injective marks operations where each output element reads each input element at most once (e.g., transpose).
	Injective = "injective"

	// CommReduce marks commutative reductions.
	CommReduce = "comm_reduce"

	// CommReduceIdx marks commutative reductions that produce an index, like argmax.
	CommReduceIdx = "comm_reduce_idx"
)

// IsBroadcast returns whether tag is Broadcast or Elemwise, which is a special case of it.
func IsBroadcast(tag string) bool {
	return tag == Elemwise || strings.HasPrefix(tag, Broadcast)
}

// IsInjective returns whether tag is Injective or any of the patterns it subsumes (broadcast, element-wise).
func IsInjective(tag string) bool {
	return IsBroadcast(tag) || strings.HasPrefix(tag, Injective)
}
