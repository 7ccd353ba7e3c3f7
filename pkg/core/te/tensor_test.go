// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/texpr/texpr/pkg/core/dtypes"
	"github.com/texpr/texpr/pkg/core/shapes"
)

// rowSum builds y[i] = Σ_j x[i, j].
func rowSum(g *Graph, x *Tensor) *Tensor {
	rj := ReduceAxis(g, RangeOf(x.Dim(1)), "rj")
	return Compute(g, x.Shape()[:1], func(i []*Var) Expr {
		return Sum(x.At(i[0], rj.Var), rj)
	}, WithName("row_sum"), WithIndexNames("i"))
}

func TestPlaceholder(t *testing.T) {
	g := New("placeholder")
	n := g.Var("n")
	x := Placeholder(g, "x", dtypes.Float32, n, Int(3))
	require.Equal(t, 2, x.Rank())
	require.Equal(t, dtypes.Float32, x.DType())
	require.Equal(t, "x", x.Name())
	require.Equal(t, "", x.Tag())
	require.Same(t, g, x.Graph())
	require.Same(t, n, x.Dim(0))
	require.Equal(t, "3", x.Dim(-1).String())
	require.Panics(t, func() { _ = x.Dim(2) })
	require.Nil(t, x.InputTensors())
	require.Equal(t, "x: (Float32)[n, 3]", x.String())
	require.Equal(t, 1, g.NumOps())

	require.Panics(t, func() { _ = Placeholder(g, "bad", dtypes.Float32, Const(1)) })
	require.Panics(t, func() { _ = x.At(Int(0)) })
	require.Panics(t, func() { _ = x.At(Int(0), Const(1)) })
}

func TestCompute(t *testing.T) {
	g := New("compute")
	x := Placeholder(g, "x", dtypes.Float32, Dims(2, 3)...)
	y := rowSum(g, x)
	op := y.Op().(*ComputeOp)
	require.Equal(t, "row_sum", y.Name())
	require.Equal(t, dtypes.Float32, y.DType())
	require.Len(t, op.Axis(), 1)
	require.Equal(t, DataParallel, op.Axis()[0].Kind)
	require.Len(t, op.ReduceAxis(), 1)
	require.Equal(t, "rj", op.ReduceAxis()[0].Var.Name())
	require.Equal(t, CommReduce, op.ReduceAxis()[0].Kind)
	require.Equal(t, []*Tensor{x}, y.InputTensors())
	require.Equal(t, KindReduce, op.Body().Kind())
	require.Equal(t, "row_sum: (Float32)[2] = compute(i: sum(x[i, rj], axis=[rj]))", op.String())

	z := Compute(g, y.Shape(), func(i []*Var) Expr {
		return Add(Mul(y.AtVars(i...), x.At(i[0], Int(0))), y.AtVars(i...))
	}, WithTag("elemwise"))
	require.Equal(t, "compute", z.Name())
	require.Equal(t, "elemwise", z.Tag())
	require.Equal(t, []*Tensor{y, x}, z.InputTensors())
	require.Equal(t, "compute: (Float32)[2] = compute(i0: ((row_sum[i0] * x[i0, 0]) + row_sum[i0])) #elemwise", z.Op().String())
	require.Equal(t, []*Tensor{x, y, z}, g.Tensors())
	require.Contains(t, g.String(), "row_sum: (Float32)[2] = compute")
}

func TestComputeContract(t *testing.T) {
	g := New("contract")
	x := Placeholder(g, "x", dtypes.Float32, Dims(2, 3)...)

	// Index variables can't leak into another computation.
	var leaked *Var
	_ = Compute(g, Dims(2), func(i []*Var) Expr {
		leaked = i[0]
		return x.At(i[0], Int(0))
	})
	err := exceptions.TryCatch[error](func() {
		Compute(g, Dims(2), func(_ []*Var) Expr { return x.At(leaked, Int(0)) })
	})
	require.ErrorContains(t, err, "doesn't belong to this computation")

	// Reduction variables must be used inside their reduction.
	rj := ReduceAxis(g, RangeOf(Int(3)), "rj")
	err = exceptions.TryCatch[error](func() {
		Compute(g, Dims(2), func(i []*Var) Expr { return x.At(i[0], rj.Var) })
	})
	require.ErrorContains(t, err, "outside of its reduction")

	// Tensors from other graphs can't be read.
	other := Placeholder(New("other"), "other", dtypes.Float32, Int(2))
	err = exceptions.TryCatch[error](func() {
		Compute(g, Dims(2), func(i []*Var) Expr { return other.AtVars(i...) })
	})
	require.ErrorContains(t, err, "different graph")

	require.Panics(t, func() { Compute(g, Dims(2), func(_ []*Var) Expr { return nil }) })
	require.Panics(t, func() {
		Compute(g, Dims(2), func(i []*Var) Expr { return x.AtVars(i...) })
	}, "rank mismatch on At")
	require.Panics(t, func() {
		Compute(g, Dims(2), func(i []*Var) Expr { return Const(1) }, WithIndexNames("a", "b"))
	})

	// None of the failed computations were registered.
	require.Equal(t, 2, g.NumOps())
}

func TestReduceAxis(t *testing.T) {
	g := New("reduce_axis")
	x := Placeholder(g, "x", dtypes.Float32, Dims(2, 3)...)
	r1 := ReduceAxis(g, RangeOf(Int(3)), "r")
	r2 := ReduceAxis(g, RangeOf(Int(3)), "r")
	require.NotEqual(t, r1.Var.ID(), r2.Var.ID())
	require.Equal(t, RoleReduce, r1.Var.Role())
	require.Equal(t, "CommReduce(r, range(min=0, ext=3))", r1.String())

	_ = Compute(g, Dims(2), func(i []*Var) Expr { return Sum(x.At(i[0], r1.Var), r1) })
	err := exceptions.TryCatch[error](func() { Sum(x.At(Int(1), r1.Var), r1) })
	require.ErrorContains(t, err, "already reduced")

	// Two reductions in the same body can't share an axis.
	err = exceptions.TryCatch[error](func() {
		Compute(g, Dims(2), func(i []*Var) Expr {
			return Add(Sum(x.At(i[0], r2.Var), r2), Sum(x.At(i[0], r2.Var), r2))
		})
	})
	require.ErrorContains(t, err, "more than one reduction")
	require.NotPanics(t, func() {
		_ = Compute(g, Dims(2), func(i []*Var) Expr { return Sum(x.At(i[0], r2.Var), r2) })
	})

	r3 := ReduceAxis(g, RangeOf(Int(3)), "")
	require.NotEmpty(t, r3.Var.Name())
	require.Panics(t, func() { _ = Sum(x.At(Int(0), r3.Var), r3, r3) })
	require.Panics(t, func() { _ = Sum(x.At(Int(0), Int(0))) })
	require.Panics(t, func() { _ = ReduceAxis(g, RangeOf(Const(3)), "f") })

	y := rowSum(g, x)
	dataAxis := y.Op().(*ComputeOp).Axis()[0]
	require.Panics(t, func() { _ = Sum(x.At(Int(0), Int(0)), dataAxis) })
}

func TestFailedComputeReleasesAxes(t *testing.T) {
	g := New("failed_compute")
	x := Placeholder(g, "x", dtypes.Float32, Dims(2, 3)...)
	var leaked *Var
	first := Compute(g, Dims(2), func(i []*Var) Expr {
		leaked = i[0]
		return x.At(i[0], Int(0))
	})
	rj := ReduceAxis(g, RangeOf(Int(3)), "rj")

	err := exceptions.TryCatch[error](func() {
		Compute(g, Dims(2), func(i []*Var) Expr { return Add(Sum(x.At(i[0], rj.Var), rj), leaked) })
	})
	require.ErrorContains(t, err, "doesn't belong to this computation")
	require.Equal(t, 2, g.NumOps())

	// The axis and the op id were not consumed by the failed computation.
	y := Compute(g, Dims(2), func(i []*Var) Expr { return Sum(x.At(i[0], rj.Var), rj) })
	require.Equal(t, first.Op().ID()+1, y.Op().ID())
	require.Equal(t, []*IterVar{rj}, y.Op().(*ComputeOp).ReduceAxis())
	require.Equal(t, 3, g.NumOps())
}

func TestIntrospection(t *testing.T) {
	g := New("introspection")
	n := g.Var("n")
	x := Placeholder(g, "x", dtypes.Float32, n, Int(3))
	y := rowSum(g, x)
	z := Compute(g, y.Shape(), func(i []*Var) Expr { return Mul(y.AtVars(i...), Const(2)) }, WithName("z"))

	require.Equal(t, []*Tensor{x, y, z}, PostOrder(z))
	require.Equal(t, []*Tensor{x, y}, PostOrder(y, x))

	shape, err := ConcreteShape(x, shapes.AxisBindings{"n": 5})
	require.NoError(t, err)
	require.True(t, shape.Equal(shapes.Make(dtypes.Float32, 5, 3)))
	_, err = ConcreteShape(x, nil)
	require.ErrorContains(t, err, `"n"`)

	v, err := EvalInt(Div(Add(n, Int(1)), Int(2)), shapes.AxisBindings{"n": 5})
	require.NoError(t, err)
	require.Equal(t, 3, v)
	_, err = EvalInt(y.Op().(*ComputeOp).Axis()[0].Var, nil)
	require.Error(t, err)

	summary, err := Summary(shapes.AxisBindings{"n": 2}, z)
	require.NoError(t, err)
	require.Equal(t, "1 inputs, 2 computes (1 reductions), intermediates: 8 B, outputs: 8 B", summary)
}

func TestCheckRank(t *testing.T) {
	g := New("check_rank")
	x := Placeholder(g, "x", dtypes.Float32, Dims(2, 3, 4)...)
	require.NoError(t, CheckRank("Op", x, 3))
	err := CheckRank("Op", x, 4)
	require.Error(t, err)
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	require.Equal(t, 4, shapeErr.Want)
	require.Equal(t, 3, shapeErr.Got)
	require.Same(t, x, shapeErr.Tensor)
	require.Equal(t, "Op requires a 4-D input, got rank 3 (x: (Float32)[2, 3, 4])", shapeErr.Error())
}

func TestGraphIdentity(t *testing.T) {
	g1, g2 := New("g"), New("g")
	require.NotEqual(t, g1.ID(), g2.ID())
	require.Equal(t, "g", g1.Name())
	require.Panics(t, func() { g1.Var("") })
	var nilGraph *Graph
	require.Panics(t, func() { nilGraph.AssertValid() })
}
