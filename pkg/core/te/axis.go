// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
)

// Range is the integer interval [Min, Min+Extent).
type Range struct {
	Min, Extent Expr
}

// RangeOf returns the range [0, extent).
func RangeOf(extent Expr) Range {
	return Range{Min: Int(0), Extent: extent}
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("range(min=%s, ext=%s)", r.Min, r.Extent)
}

// IterVarKind tells whether an axis iterates over the output (data parallel) or is summed over.
type IterVarKind int

const (
	DataParallel IterVarKind = iota
	CommReduce
)

//go:generate go tool enumer -type=IterVarKind -output=gen_itervarkind_enumer.go axis.go

// IterVar is an iteration axis: a variable bound to a Range.
type IterVar struct {
	Var  *Var
	Dom  Range
	Kind IterVarKind

	graph *Graph
}

// String implements fmt.Stringer.
func (iv *IterVar) String() string {
	return fmt.Sprintf("%s(%s, %s)", iv.Kind, iv.Var.name, iv.Dom)
}

// ReduceAxis allocates a new reduction axis over dom.
//
// Every call returns a distinct axis, even for the same name and range. An axis can be
// consumed by only one reduction: two reductions over the same extent need two axes.
func ReduceAxis(g *Graph, dom Range, name string) *IterVar {
	g.AssertValid()
	assertIntExpr("ReduceAxis", dom.Min)
	assertIntExpr("ReduceAxis", dom.Extent)
	if name == "" {
		name = fmt.Sprintf("rv%d", g.nextVarID)
	}
	return &IterVar{
		Var:   g.newVar(name, RoleReduce),
		Dom:   dom,
		Kind:  CommReduce,
		graph: g,
	}
}

// Sum returns the sum of source over all points of the given reduction axes.
//
// It panics if an axis is not a reduction axis, is repeated, or was already consumed by the reduction
// of another Compute. Axes are only marked as consumed once the Compute that holds the reduction is created.
func Sum(source Expr, axes ...*IterVar) Expr {
	assertNotNil("Sum", source)
	if len(axes) == 0 {
		exceptions.Panicf("te.Sum(%s): no reduction axes given", source)
	}
	g := axes[0].graph
	for ii, axis := range axes {
		if axis.Kind != CommReduce {
			exceptions.Panicf("te.Sum(%s): axis %s is not a reduction axis", source, axis)
		}
		if axis.graph != g {
			exceptions.Panicf("te.Sum(%s): axis %q belongs to a different graph", source, axis.Var.name)
		}
		if slices.Index(axes, axis) != ii {
			exceptions.Panicf("te.Sum(%s): axis %q given more than once", source, axis.Var.name)
		}
		if prev, found := g.reducedBy[axis.Var.id]; found {
			exceptions.Panicf("te.Sum(%s): axis %q is already reduced by %s, allocate a new axis with ReduceAxis",
				source, axis.Var.name, prev)
		}
	}
	return &Reduce{Combiner: ReduceSum, Source: source, Axes: slices.Clone(axes)}
}

func assertIntExpr(opName string, e Expr) {
	assertNotNil(opName, e)
	if !e.DType().IsInt() {
		exceptions.Panicf("te.%s: expected an integer expression, got %s of dtype %s", opName, e, e.DType())
	}
}
