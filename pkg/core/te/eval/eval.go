// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package eval is a reference interpreter for tensor-expression graphs.
//
// It executes every Compute element by element, in graph order, with no scheduling: it is slow,
// but simple, and serves as the numeric oracle to test operators and scheduled lowerings against.
//
// Arithmetic is done in float64, and every intermediary value (including each step of a reduction)
// is rounded to the dtype of its expression, so results follow the precision of the graph's dtypes.
package eval

import (
	"math"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/texpr/texpr/pkg/core/shapes"
	"github.com/texpr/texpr/pkg/core/te"
	"github.com/texpr/texpr/pkg/core/tensors"
	"k8s.io/klog/v2"
)

// Executor evaluates a te graph for fixed bindings of the symbolic dimensions and fixed inputs.
type Executor struct {
	bindings shapes.AxisBindings
	inputs   map[*te.Tensor]*tensors.Tensor
}

// New creates an Executor. bindings resolve the symbolic dimensions (see te.Graph.Var) by name, and can be nil
// if all dimensions are static.
func New(bindings shapes.AxisBindings) *Executor {
	return &Executor{
		bindings: bindings.Clone(),
		inputs:   make(map[*te.Tensor]*tensors.Tensor),
	}
}

// Bind feeds value to the given placeholder. It returns the Executor itself, so calls can be chained.
func (e *Executor) Bind(placeholder *te.Tensor, value *tensors.Tensor) *Executor {
	if _, ok := placeholder.Op().(*te.PlaceholderOp); !ok {
		exceptions.Panicf("eval.Executor.Bind(%s): tensor is not a placeholder", placeholder)
	}
	e.inputs[placeholder] = value
	return e
}

// Run evaluates the outputs, and everything they depend on, and returns their values.
func (e *Executor) Run(outputs ...*te.Tensor) (results []*tensors.Tensor, err error) {
	err = exceptions.TryCatch[error](func() { results = e.run(outputs) })
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MustRun is like Run, but panics on error.
func (e *Executor) MustRun(outputs ...*te.Tensor) []*tensors.Tensor {
	results, err := e.Run(outputs...)
	if err != nil {
		panic(err)
	}
	return results
}

func (e *Executor) run(outputs []*te.Tensor) []*tensors.Tensor {
	values := make(map[*te.Tensor]*tensors.Tensor)
	for _, t := range te.PostOrder(outputs...) {
		shape, err := te.ConcreteShape(t, e.bindings)
		if err != nil {
			panic(err)
		}
		switch op := t.Op().(type) {
		case *te.PlaceholderOp:
			value, found := e.inputs[t]
			if !found {
				panic(errors.Errorf("placeholder %s is not bound", t))
			}
			if value.DType() != shape.DType {
				panic(errors.Errorf("placeholder %s bound to a tensor of dtype %s, wanted %s", t, value.DType(), shape.DType))
			}
			if err := value.Shape().CheckDims(shape.Dimensions...); err != nil {
				panic(errors.WithMessagef(err, "placeholder %s", t))
			}
			values[t] = value
		case *te.ComputeOp:
			klog.V(1).Infof("eval: computing %s for %s", t, shape)
			values[t] = e.compute(op, shape, values)
		}
	}
	results := make([]*tensors.Tensor, len(outputs))
	for ii, t := range outputs {
		results[ii] = values[t]
	}
	return results
}

// env holds the values of index and reduction variables.
type env map[*te.Var]int

func (e *Executor) compute(op *te.ComputeOp, shape shapes.Shape, values map[*te.Tensor]*tensors.Tensor) *tensors.Tensor {
	out := tensors.FromShape(shape)
	flat := out.Flat()
	axes := op.Axis()
	scope := make(env, len(axes))
	body := op.Body()
	for flatIdx, indices := range shape.Iter() {
		for ii, axis := range axes {
			scope[axis.Var] = indices[ii]
		}
		flat[flatIdx] = tensors.RoundToDType(e.eval(body, scope, values), shape.DType)
	}
	return out
}

func (e *Executor) eval(expr te.Expr, scope env, values map[*te.Tensor]*tensors.Tensor) float64 {
	dtype := expr.DType()
	switch x := expr.(type) {
	case *te.IntImm:
		return float64(x.Value)
	case *te.FloatImm:
		return tensors.RoundToDType(x.Value, dtype)
	case *te.Var:
		if x.Role() == te.RoleSymbolic {
			v, err := e.bindings.Lookup(x.Name())
			if err != nil {
				panic(err)
			}
			return float64(v)
		}
		v, found := scope[x]
		if !found {
			panic(errors.Errorf("variable %q evaluated out of its scope", x.Name()))
		}
		return float64(v)
	case *te.CastExpr:
		return tensors.RoundToDType(e.eval(x.X, scope, values), dtype)
	case *te.Binary:
		a := e.eval(x.A, scope, values)
		b := e.eval(x.B, scope, values)
		return tensors.RoundToDType(binary(x, a, b), dtype)
	case *te.Call:
		args := make([]float64, len(x.Args))
		for ii, arg := range x.Args {
			args[ii] = e.eval(arg, scope, values)
		}
		switch x.Fn {
		case te.FnPow:
			return tensors.RoundToDType(math.Pow(args[0], args[1]), dtype)
		case te.FnSqrt:
			return tensors.RoundToDType(math.Sqrt(args[0]), dtype)
		}
	case *te.TensorRead:
		indices := make([]int, len(x.Indices))
		for ii, idx := range x.Indices {
			indices[ii] = int(e.eval(idx, scope, values))
		}
		source := values[x.Tensor]
		flatIdx, err := source.FlatIndex(indices...)
		if err != nil {
			panic(errors.WithMessagef(err, "evaluating %s", x))
		}
		return source.Flat()[flatIdx]
	case *te.Reduce:
		return e.reduce(x, scope, values)
	}
	panic(errors.Errorf("eval: unsupported expression %s (%s)", expr, expr.Kind()))
}

func binary(x *te.Binary, a, b float64) float64 {
	switch x.Op {
	case te.OpAdd:
		return a + b
	case te.OpSub:
		return a - b
	case te.OpMul:
		return a * b
	}
	if x.DType().IsInt() {
		if b == 0 {
			panic(errors.Errorf("integer division by zero evaluating %s", x))
		}
		return float64(int64(a) / int64(b))
	}
	return a / b
}

// reduce sums the source over all the points of its axes. The accumulator is kept in the
// dtype of the reduction, so the order of the summation (row-major over the axes) matters.
func (e *Executor) reduce(x *te.Reduce, scope env, values map[*te.Tensor]*tensors.Tensor) float64 {
	dtype := x.DType()
	mins := make([]int, len(x.Axes))
	extents := make([]int, len(x.Axes))
	for ii, axis := range x.Axes {
		mins[ii] = int(e.eval(axis.Dom.Min, scope, values))
		extents[ii] = int(e.eval(axis.Dom.Extent, scope, values))
		if extents[ii] < 0 {
			panic(errors.Errorf("reduction axis %s has negative extent %d", axis, extents[ii]))
		}
	}
	defer func() {
		for _, axis := range x.Axes {
			delete(scope, axis.Var)
		}
	}()
	var acc float64
	for _, indices := range shapes.Make(dtype, extents...).Iter() {
		for ii, axis := range x.Axes {
			scope[axis.Var] = mins[ii] + indices[ii]
		}
		acc = tensors.RoundToDType(acc+e.eval(x.Source, scope, values), dtype)
	}
	return acc
}
