// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"
	"github.com/texpr/texpr/pkg/core/dtypes"
)

func TestIntFolding(t *testing.T) {
	e := Mul(Int(2), Int(3))
	require.Equal(t, KindIntImm, e.Kind())
	require.Equal(t, int64(6), e.(*IntImm).Value)

	e = Div(Int(7), Int(2))
	require.Equal(t, int64(3), e.(*IntImm).Value)
	require.Equal(t, int64(-1), Sub(Int(2), Int(3)).(*IntImm).Value)
	require.Panics(t, func() { _ = Div(Int(1), Int(0)) })

	g := New("folding")
	n := g.Var("n")
	require.Same(t, n, g.Var("n"))
	e = Mul(n, Int(2))
	require.Equal(t, KindBinary, e.Kind())
	require.Equal(t, dtypes.Int64, e.DType())
	require.Equal(t, "(n * 2)", e.String())
}

func TestPromotion(t *testing.T) {
	g := New("promotion")
	x := Placeholder(g, "x", dtypes.Float32, Int(3))
	read := x.At(Int(0))

	e := Add(read, Const(1e-5))
	require.Equal(t, dtypes.Float32, e.DType())
	require.Equal(t, dtypes.Float32, e.(*Binary).B.DType())
	require.Equal(t, "(x[0] + 1e-05f)", e.String())

	e = Div(read, Mul(Int(2), Int(2)))
	require.Equal(t, "(x[0] / 4f)", e.String())

	n := g.Var("n")
	e = Div(read, Mul(n, Int(2)))
	require.Equal(t, KindCast, e.(*Binary).B.Kind())
	require.Equal(t, "(x[0] / float32((n * 2)))", e.String())

	// Constants on the left also adapt.
	e = Sub(Const(1), read)
	require.Equal(t, "(1f - x[0])", e.String())

	// Float constants fold in float64.
	require.Equal(t, 0.75, Add(Const(0.5), Const(0.25)).(*FloatImm).Value)

	// Different float dtypes don't mix implicitly.
	y := Placeholder(g, "y", dtypes.Float64, Int(3))
	require.Panics(t, func() { _ = Add(read, y.At(Int(0))) })
	require.NotPanics(t, func() { _ = Add(Cast(read, dtypes.Float64), y.At(Int(0))) })
	require.Panics(t, func() { _ = Add(read, nil) })
}

func TestIntrinsics(t *testing.T) {
	g := New("intrinsics")
	x := Placeholder(g, "x", dtypes.Float32, Int(3))
	require.Equal(t, "pow(x[1], 2f)", Square(x.At(Int(1))).String())
	require.Equal(t, "sqrt(x[2])", Sqrt(x.At(Int(2))).String())
	require.Equal(t, 2.0, Sqrt(ConstAs(dtypes.Float32, 4)).(*FloatImm).Value)
	require.Equal(t, 8.0, Pow(Const(2), Const(3)).(*FloatImm).Value)
	require.Panics(t, func() { _ = Sqrt(Int(4)) })
	require.Panics(t, func() { _ = Pow(Int(2), Int(2)) })

	require.Same(t, x.At(Int(0)).(*TensorRead).Tensor, x)
	c := Cast(Int(3), dtypes.Float32)
	require.Equal(t, KindFloatImm, c.Kind())
	require.Equal(t, "3f", c.String())
	require.Panics(t, func() { _ = Cast(Int(3), dtypes.InvalidDType) })
}

func TestWalk(t *testing.T) {
	g := New("walk")
	x := Placeholder(g, "x", dtypes.Float32, Int(3))
	e := Sqrt(Add(x.At(Int(1)), Const(1)))
	var kinds []ExprKind
	Walk(e, func(sub Expr) bool {
		kinds = append(kinds, sub.Kind())
		return true
	})
	require.Equal(t, []ExprKind{KindCall, KindBinary, KindTensorRead, KindIntImm, KindFloatImm}, kinds)

	kinds = nil
	Walk(e, func(sub Expr) bool {
		kinds = append(kinds, sub.Kind())
		return sub.Kind() != KindBinary
	})
	require.Equal(t, []ExprKind{KindCall, KindBinary}, kinds)
}

func TestEnumNames(t *testing.T) {
	require.Equal(t, "TensorRead", KindTensorRead.String())
	require.Equal(t, "Div", OpDiv.String())
	require.Equal(t, "/", OpDiv.Symbol())
	require.Equal(t, "BinaryOp(7)", BinaryOp(7).Symbol())
	require.Equal(t, "sqrt", FnSqrt.String())
	require.Equal(t, "sum", ReduceSum.String())
	require.Equal(t, "ReduceOp(3)", ReduceOp(3).String())
	require.False(t, ReduceOp(3).IsAReduceOp())
	require.Equal(t, "CommReduce", CommReduce.String())

	kind, err := ExprKindString("reduce")
	require.NoError(t, err)
	require.Equal(t, KindReduce, kind)
	_, err = IterVarKindString("Scan")
	require.Error(t, err)

	// Errors name the operation.
	g := New("enum_names")
	x := Placeholder(g, "x", dtypes.Float32, Int(3))
	y := Placeholder(g, "y", dtypes.Float64, Int(3))
	err = exceptions.TryCatch[error](func() { _ = Mul(x.At(Int(0)), y.At(Int(0))) })
	require.ErrorContains(t, err, "te.Mul: operands have incompatible dtypes")
}
