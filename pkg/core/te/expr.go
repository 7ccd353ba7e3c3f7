// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/texpr/texpr/pkg/core/dtypes"
)

// ExprKind identifies the type of scalar expression node.
type ExprKind int

const (
	KindInvalid ExprKind = iota
	KindIntImm
	KindFloatImm
	KindVar
	KindBinary
	KindCall
	KindCast
	KindTensorRead
	KindReduce
)

//go:generate go tool enumer -type=ExprKind -trimprefix=Kind -output=gen_exprkind_enumer.go expr.go

// Expr is a scalar symbolic expression. Expressions are immutable once created.
//
// The concrete types are *IntImm, *FloatImm, *Var, *Binary, *Call, *CastExpr, *TensorRead and *Reduce.
type Expr interface {
	Kind() ExprKind
	DType() dtypes.DType
	String() string
}

// IntImm is an integer constant.
type IntImm struct {
	Value int64
	dtype dtypes.DType
}

// Int returns an Int64 constant.
func Int(value int) *IntImm { return &IntImm{Value: int64(value), dtype: dtypes.Int64} }

func (e *IntImm) Kind() ExprKind      { return KindIntImm }
func (e *IntImm) DType() dtypes.DType { return e.dtype }
func (e *IntImm) String() string      { return strconv.FormatInt(e.Value, 10) }

// FloatImm is a floating point constant.
type FloatImm struct {
	Value float64
	dtype dtypes.DType
}

// Const returns a float constant. Its dtype is Float64, but when combined with another float expression
// in an arithmetic op, it takes on the dtype of the other operand.
func Const(value float64) *FloatImm { return &FloatImm{Value: value, dtype: dtypes.Float64} }

// ConstAs returns a float constant with the given dtype.
func ConstAs(dtype dtypes.DType, value float64) *FloatImm {
	return &FloatImm{Value: value, dtype: dtype}
}

func (e *FloatImm) Kind() ExprKind      { return KindFloatImm }
func (e *FloatImm) DType() dtypes.DType { return e.dtype }
func (e *FloatImm) String() string {
	s := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if e.dtype == dtypes.Float32 {
		s += "f"
	}
	return s
}

// VarRole tells what a variable stands for.
type VarRole int

const (
	// RoleSymbolic is a symbolic dimension, resolved by name at execution time.
	RoleSymbolic VarRole = iota

	// RoleIndex is the index over one axis of a Compute output.
	RoleIndex

	// RoleReduce is the index of a reduction axis.
	RoleReduce
)

// Var is a scalar Int64 variable: a symbolic dimension, a compute index or a reduction index.
//
// Two variables are the same only if they are the same pointer: names are for printing.
type Var struct {
	id   int
	name string
	role VarRole
}

func (v *Var) Kind() ExprKind      { return KindVar }
func (v *Var) DType() dtypes.DType { return dtypes.Int64 }
func (v *Var) String() string      { return v.name }

// ID of the variable, unique within its Graph.
func (v *Var) ID() int { return v.id }

// Name of the variable.
func (v *Var) Name() string { return v.name }

// Role of the variable.
func (v *Var) Role() VarRole { return v.role }

// BinaryOp enumerates the arithmetic binary operations.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

//go:generate go tool enumer -type=BinaryOp -trimprefix=Op -output=gen_binaryop_enumer.go expr.go

var binaryOpSymbols = [...]string{"+", "-", "*", "/"}

// Symbol returns the infix symbol of the operation, e.g. "+" for OpAdd.
func (op BinaryOp) Symbol() string {
	if !op.IsABinaryOp() {
		return op.String()
	}
	return binaryOpSymbols[op]
}

// Binary is an arithmetic operation on two expressions of the same dtype.
type Binary struct {
	Op   BinaryOp
	A, B Expr
}

func (e *Binary) Kind() ExprKind      { return KindBinary }
func (e *Binary) DType() dtypes.DType { return e.A.DType() }
func (e *Binary) String() string      { return fmt.Sprintf("(%s %s %s)", e.A, e.Op.Symbol(), e.B) }

// CallFn enumerates the intrinsic functions.
type CallFn int

const (
	FnPow CallFn = iota
	FnSqrt
)

//go:generate go tool enumer -type=CallFn -trimprefix=Fn -transform=lower -output=gen_callfn_enumer.go expr.go

// Call is the application of an intrinsic function. Its dtype is the dtype of the first argument.
type Call struct {
	Fn   CallFn
	Args []Expr
}

func (e *Call) Kind() ExprKind      { return KindCall }
func (e *Call) DType() dtypes.DType { return e.Args[0].DType() }
func (e *Call) String() string {
	parts := make([]string, len(e.Args))
	for ii, arg := range e.Args {
		parts[ii] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", e.Fn, strings.Join(parts, ", "))
}

// CastExpr converts X to another dtype.
type CastExpr struct {
	X     Expr
	dtype dtypes.DType
}

func (e *CastExpr) Kind() ExprKind      { return KindCast }
func (e *CastExpr) DType() dtypes.DType { return e.dtype }
func (e *CastExpr) String() string {
	return fmt.Sprintf("%s(%s)", strings.ToLower(e.dtype.String()), e.X)
}

// TensorRead reads one element of a Tensor.
type TensorRead struct {
	Tensor  *Tensor
	Indices []Expr
}

func (e *TensorRead) Kind() ExprKind      { return KindTensorRead }
func (e *TensorRead) DType() dtypes.DType { return e.Tensor.DType() }
func (e *TensorRead) String() string {
	parts := make([]string, len(e.Indices))
	for ii, idx := range e.Indices {
		parts[ii] = idx.String()
	}
	return fmt.Sprintf("%s[%s]", e.Tensor.Name(), strings.Join(parts, ", "))
}

// ReduceOp enumerates the reduction combiners.
type ReduceOp int

const (
	ReduceSum ReduceOp = iota
)

//go:generate go tool enumer -type=ReduceOp -trimprefix=Reduce -transform=lower -output=gen_reduceop_enumer.go expr.go

// Reduce combines Source over every point of the reduction Axes.
type Reduce struct {
	Combiner ReduceOp
	Source   Expr
	Axes     []*IterVar
}

func (e *Reduce) Kind() ExprKind      { return KindReduce }
func (e *Reduce) DType() dtypes.DType { return e.Source.DType() }
func (e *Reduce) String() string {
	names := make([]string, len(e.Axes))
	for ii, axis := range e.Axes {
		names[ii] = axis.Var.name
	}
	return fmt.Sprintf("%s(%s, axis=[%s])", e.Combiner, e.Source, strings.Join(names, ", "))
}

// Walk visits expr and its sub-expressions depth-first, parents before children, operands left to right.
// If visit returns false, the children of that node are not visited.
//
// Tensor reads are leaves as far as Walk is concerned, except for their index expressions:
// it doesn't descend into the definitions of the tensors read.
func Walk(expr Expr, visit func(Expr) bool) {
	if !visit(expr) {
		return
	}
	switch e := expr.(type) {
	case *Binary:
		Walk(e.A, visit)
		Walk(e.B, visit)
	case *Call:
		for _, arg := range e.Args {
			Walk(arg, visit)
		}
	case *CastExpr:
		Walk(e.X, visit)
	case *TensorRead:
		for _, idx := range e.Indices {
			Walk(idx, visit)
		}
	case *Reduce:
		Walk(e.Source, visit)
	}
}
