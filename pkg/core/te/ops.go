// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"math"

	"github.com/gomlx/exceptions"
	"github.com/texpr/texpr/pkg/core/dtypes"
)

// Add returns the expression a + b.
//
// Operands of different dtypes are promoted: a constant takes the dtype of the other operand,
// and an integer expression is cast to the dtype of a float operand. Two different float dtypes
// can't be mixed: use Cast explicitly.
func Add(a, b Expr) Expr { return binary(OpAdd, a, b) }

// Sub returns the expression a - b. See Add about dtype promotion.
func Sub(a, b Expr) Expr { return binary(OpSub, a, b) }

// Mul returns the expression a * b. See Add about dtype promotion.
func Mul(a, b Expr) Expr { return binary(OpMul, a, b) }

// Div returns the expression a / b. For integers, it is a truncated division.
// See Add about dtype promotion.
func Div(a, b Expr) Expr { return binary(OpDiv, a, b) }

// Pow returns the expression a**b, for float expressions.
func Pow(a, b Expr) Expr {
	a, b = promote("Pow", a, b)
	assertFloat("Pow", a)
	if ca, ok := a.(*FloatImm); ok {
		if cb, ok := b.(*FloatImm); ok {
			return &FloatImm{Value: math.Pow(ca.Value, cb.Value), dtype: ca.dtype}
		}
	}
	return &Call{Fn: FnPow, Args: []Expr{a, b}}
}

// Square returns x**2, as an intrinsic power call.
func Square(x Expr) Expr { return Pow(x, Int(2)) }

// Sqrt returns the square root of a float expression.
func Sqrt(x Expr) Expr {
	assertNotNil("Sqrt", x)
	assertFloat("Sqrt", x)
	if c, ok := x.(*FloatImm); ok {
		return &FloatImm{Value: math.Sqrt(c.Value), dtype: c.dtype}
	}
	return &Call{Fn: FnSqrt, Args: []Expr{x}}
}

// Cast converts x to the given dtype. It returns x itself if it already has that dtype.
func Cast(x Expr, dtype dtypes.DType) Expr {
	assertNotNil("Cast", x)
	if !dtype.IsSupported() {
		exceptions.Panicf("te.Cast: invalid dtype %s", dtype)
	}
	if x.DType() == dtype {
		return x
	}
	if isImm(x) {
		return convertImm(x, dtype)
	}
	return &CastExpr{X: x, dtype: dtype}
}

func binary(op BinaryOp, a, b Expr) Expr {
	a, b = promote(op.String(), a, b)
	if ca, ok := a.(*IntImm); ok {
		if cb, ok := b.(*IntImm); ok {
			return &IntImm{Value: foldInt(op, ca.Value, cb.Value), dtype: ca.dtype}
		}
	}
	if ca, ok := a.(*FloatImm); ok {
		if cb, ok := b.(*FloatImm); ok {
			return &FloatImm{Value: foldFloat(op, ca.Value, cb.Value), dtype: ca.dtype}
		}
	}
	return &Binary{Op: op, A: a, B: b}
}

func foldInt(op BinaryOp, a, b int64) int64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	default:
		if b == 0 {
			exceptions.Panicf("te.Div: integer division by zero (%d / 0)", a)
		}
		return a / b
	}
}

func foldFloat(op BinaryOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	default:
		return a / b
	}
}

func isImm(e Expr) bool {
	k := e.Kind()
	return k == KindIntImm || k == KindFloatImm
}

// convertImm returns the constant imm with the given dtype.
func convertImm(imm Expr, dtype dtypes.DType) Expr {
	var value float64
	switch c := imm.(type) {
	case *IntImm:
		if dtype.IsInt() {
			return &IntImm{Value: c.Value, dtype: dtype}
		}
		value = float64(c.Value)
	case *FloatImm:
		value = c.Value
		if dtype.IsInt() {
			return &IntImm{Value: int64(value), dtype: dtype}
		}
	}
	return &FloatImm{Value: value, dtype: dtype}
}

// promote returns a and b converted to a common dtype.
func promote(opName string, a, b Expr) (Expr, Expr) {
	assertNotNil(opName, a)
	assertNotNil(opName, b)
	da, db := a.DType(), b.DType()
	if da == db {
		return a, b
	}
	aImm, bImm := isImm(a), isImm(b)
	switch {
	case aImm && !bImm:
		if da.IsFloat() && db.IsInt() {
			return a, Cast(b, da)
		}
		return convertImm(a, db), b
	case bImm && !aImm:
		if db.IsFloat() && da.IsInt() {
			return Cast(a, db), b
		}
		return a, convertImm(b, da)
	case aImm && bImm:
		if da.IsFloat() || !db.IsFloat() {
			return a, convertImm(b, da)
		}
		return convertImm(a, db), b
	}
	switch {
	case da.IsInt() && db.IsFloat():
		return Cast(a, db), b
	case da.IsFloat() && db.IsInt():
		return a, Cast(b, da)
	case da.IsInt() && db.IsInt():
		return Cast(a, dtypes.Int64), Cast(b, dtypes.Int64)
	}
	exceptions.Panicf("te.%s: operands have incompatible dtypes %s (%s) and %s (%s), use Cast to convert explicitly",
		opName, da, a, db, b)
	return nil, nil
}

func assertNotNil(opName string, e Expr) {
	if e == nil {
		exceptions.Panicf("te.%s: nil expression", opName)
	}
}

func assertFloat(opName string, e Expr) {
	if !e.DType().IsFloat() {
		exceptions.Panicf("te.%s: requires a float expression, got %s of dtype %s", opName, e, e.DType())
	}
}
