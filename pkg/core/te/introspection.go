// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/texpr/texpr/pkg/core/shapes"
	"github.com/texpr/texpr/pkg/support/sets"
)

// PostOrder returns the tensors needed to compute outputs, each after all of its inputs.
// Each tensor appears once; the outputs are included.
func PostOrder(outputs ...*Tensor) []*Tensor {
	var order []*Tensor
	visited := sets.Make[*Tensor]()
	var visit func(t *Tensor)
	visit = func(t *Tensor) {
		if !visited.Insert(t) {
			return
		}
		for _, input := range t.InputTensors() {
			visit(input)
		}
		order = append(order, t)
	}
	for _, t := range outputs {
		if t == nil {
			exceptions.Panicf("te.PostOrder: nil output tensor")
		}
		visit(t)
	}
	return order
}

// EvalInt evaluates an integer expression, such as a dimension, resolving symbolic dimensions from bindings.
// Index and reduction variables can't be resolved here and return an error.
func EvalInt(expr Expr, bindings shapes.AxisBindings) (int, error) {
	switch e := expr.(type) {
	case *IntImm:
		return int(e.Value), nil
	case *Var:
		if e.role != RoleSymbolic {
			return 0, errors.Errorf("variable %q is not a symbolic dimension", e.name)
		}
		return bindings.Lookup(e.name)
	case *CastExpr:
		if !e.dtype.IsInt() {
			break
		}
		return EvalInt(e.X, bindings)
	case *Binary:
		if !e.DType().IsInt() {
			break
		}
		a, err := EvalInt(e.A, bindings)
		if err != nil {
			return 0, err
		}
		b, err := EvalInt(e.B, bindings)
		if err != nil {
			return 0, err
		}
		if e.Op == OpDiv && b == 0 {
			return 0, errors.Errorf("integer division by zero in %s", e)
		}
		return int(foldInt(e.Op, int64(a), int64(b))), nil
	}
	return 0, errors.Errorf("expression %s is not a static integer expression", expr)
}

// ConcreteShape resolves the shape of t with the given bindings.
func ConcreteShape(t *Tensor, bindings shapes.AxisBindings) (shapes.Shape, error) {
	dims := make([]int, t.Rank())
	for ii, dim := range t.shape {
		var err error
		dims[ii], err = EvalInt(dim, bindings)
		if err != nil {
			return shapes.Invalid(), errors.WithMessagef(err, "resolving axis %d of %s", ii, t)
		}
		if dims[ii] < 0 {
			return shapes.Invalid(), errors.Errorf("axis %d of %s resolved to negative dimension %d", ii, t, dims[ii])
		}
	}
	return shapes.Make(t.dtype, dims...), nil
}

// Summary describes the computation of outputs: number of inputs, computations and reductions,
// and the memory of intermediary results for the given bindings of the symbolic dimensions.
func Summary(bindings shapes.AxisBindings, outputs ...*Tensor) (string, error) {
	var numInputs, numComputes, numReductions int
	var intermediateBytes, outputBytes uint64
	isOutput := sets.Make[*Tensor](len(outputs))
	for _, t := range outputs {
		isOutput.Insert(t)
	}
	for _, t := range PostOrder(outputs...) {
		op, ok := t.Op().(*ComputeOp)
		if !ok {
			numInputs++
			continue
		}
		numComputes++
		if len(op.reduceAxis) > 0 {
			numReductions++
		}
		shape, err := ConcreteShape(t, bindings)
		if err != nil {
			return "", err
		}
		if isOutput.Has(t) {
			outputBytes += uint64(shape.Memory())
		} else {
			intermediateBytes += uint64(shape.Memory())
		}
	}
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%d inputs, %d computes (%d reductions)", numInputs, numComputes, numReductions)
	_, _ = fmt.Fprintf(&sb, ", intermediates: %s, outputs: %s", humanize.Bytes(intermediateBytes), humanize.Bytes(outputBytes))
	return sb.String(), nil
}
