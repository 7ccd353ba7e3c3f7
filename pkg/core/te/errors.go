// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"fmt"

	"github.com/pkg/errors"
)

// ShapeError reports a tensor given to an operator with an unsupported rank.
// It is a construction-time error: the call site must be fixed, retrying won't help.
type ShapeError struct {
	// Op is the name of the operator that rejected the tensor.
	Op string

	// Tensor is the rejected tensor.
	Tensor *Tensor

	// Want and Got are the required and actual ranks.
	Want, Got int
}

// Error implements error.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s requires a %d-D input, got rank %d (%s)", e.Op, e.Want, e.Got, e.Tensor)
}

// CheckRank returns a *ShapeError (with a stack-trace) if t doesn't have the given rank.
func CheckRank(opName string, t *Tensor, rank int) error {
	if t.Rank() == rank {
		return nil
	}
	return errors.WithStack(&ShapeError{Op: opName, Tensor: t, Want: rank, Got: t.Rank()})
}
