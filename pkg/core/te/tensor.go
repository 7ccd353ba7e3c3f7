// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package te

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/texpr/texpr/pkg/core/dtypes"
	"github.com/texpr/texpr/pkg/support/sets"
	"k8s.io/klog/v2"
)

// Tensor is an immutable handle to the output of an Operation.
type Tensor struct {
	op    Operation
	shape []Expr
	dtype dtypes.DType
}

// Op returns the operation that produces the tensor.
func (t *Tensor) Op() Operation { return t.op }

// Graph that holds the tensor.
func (t *Tensor) Graph() *Graph { return t.op.Graph() }

// Name of the producing operation.
func (t *Tensor) Name() string { return t.op.Name() }

// Tag of the producing operation.
func (t *Tensor) Tag() string { return t.op.Tag() }

// DType of the tensor elements.
func (t *Tensor) DType() dtypes.DType { return t.dtype }

// Rank is the number of axes of the tensor.
func (t *Tensor) Rank() int { return len(t.shape) }

// Shape returns a copy of the tensor dimensions, each an integer expression.
func (t *Tensor) Shape() []Expr { return slices.Clone(t.shape) }

// Dim returns the dimension of the given axis. Negative axes count from the end.
func (t *Tensor) Dim(axis int) Expr {
	adjusted := axis
	if adjusted < 0 {
		adjusted += t.Rank()
	}
	if adjusted < 0 || adjusted >= t.Rank() {
		exceptions.Panicf("te.Tensor.Dim(%d) out-of-bounds for tensor %s", axis, t)
	}
	return t.shape[adjusted]
}

// InputTensors returns the tensors read by the producing operation, in order of first appearance.
func (t *Tensor) InputTensors() []*Tensor { return t.op.InputTensors() }

// At returns the expression reading the tensor element at the given indices.
// It panics if the number of indices is not the rank of the tensor.
func (t *Tensor) At(indices ...Expr) Expr {
	if len(indices) != t.Rank() {
		exceptions.Panicf("te.Tensor.At: tensor %s has rank %d, but was indexed with %d indices", t, t.Rank(), len(indices))
	}
	for _, idx := range indices {
		assertIntExpr("Tensor.At", idx)
	}
	return &TensorRead{Tensor: t, Indices: slices.Clone(indices)}
}

// AtVars is like At, for the common case of indexing with variables.
func (t *Tensor) AtVars(indices ...*Var) Expr {
	exprs := make([]Expr, len(indices))
	for ii, v := range indices {
		exprs[ii] = v
	}
	return t.At(exprs...)
}

// String implements fmt.Stringer, e.g.: "data: (Float32)[n, 3, 4, 4]".
func (t *Tensor) String() string {
	return fmt.Sprintf("%s: (%s)%s", t.Name(), t.dtype, ShapeString(t.shape))
}

// ShapeString formats a symbolic shape, e.g. "[n, 3, (h * 2)]".
func ShapeString(shape []Expr) string {
	parts := make([]string, len(shape))
	for ii, dim := range shape {
		parts[ii] = dim.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dims converts concrete dimensions to a shape of constants.
func Dims(dimensions ...int) []Expr {
	shape := make([]Expr, len(dimensions))
	for ii, dim := range dimensions {
		shape[ii] = Int(dim)
	}
	return shape
}

// Operation produces a Tensor. It is either a *PlaceholderOp or a *ComputeOp.
type Operation interface {
	ID() OpID
	Graph() *Graph
	Name() string
	Tag() string
	Output() *Tensor
	InputTensors() []*Tensor
	String() string

	isOperation()
}

type opBase struct {
	graph  *Graph
	id     OpID
	name   string
	tag    string
	output *Tensor
}

func (op *opBase) ID() OpID        { return op.id }
func (op *opBase) Graph() *Graph   { return op.graph }
func (op *opBase) Name() string    { return op.name }
func (op *opBase) Tag() string     { return op.tag }
func (op *opBase) Output() *Tensor { return op.output }
func (op *opBase) isOperation()    {}

// PlaceholderOp is an input of the graph, to be fed when executing it.
type PlaceholderOp struct {
	opBase
}

// InputTensors returns nil: placeholders have no inputs.
func (op *PlaceholderOp) InputTensors() []*Tensor { return nil }

// String implements fmt.Stringer.
func (op *PlaceholderOp) String() string {
	return fmt.Sprintf("%s = placeholder()", op.output)
}

// Placeholder creates an input tensor with the given name, dtype and shape.
func Placeholder(g *Graph, name string, dtype dtypes.DType, shape ...Expr) *Tensor {
	g.AssertValid()
	if !dtype.IsSupported() {
		exceptions.Panicf("te.Placeholder(%q): invalid dtype %s", name, dtype)
	}
	for _, dim := range shape {
		assertIntExpr("Placeholder", dim)
	}
	if name == "" {
		name = "placeholder"
	}
	op := &PlaceholderOp{opBase{graph: g, id: g.newOpID(), name: name}}
	op.output = &Tensor{op: op, shape: slices.Clone(shape), dtype: dtype}
	g.registerOp(op)
	klog.V(2).Infof("te.Placeholder: %s", op.output)
	return op.output
}

// ComputeOp defines each element of its output by a scalar expression (Body) of the output indices (Axis).
type ComputeOp struct {
	opBase

	axis       []*IterVar
	reduceAxis []*IterVar
	body       Expr
	inputs     sets.Ordered[*Tensor]
}

// Axis returns the data-parallel axes, one per output dimension.
func (op *ComputeOp) Axis() []*IterVar { return slices.Clone(op.axis) }

// ReduceAxis returns the reduction axes used in the body, in order of appearance.
func (op *ComputeOp) ReduceAxis() []*IterVar { return slices.Clone(op.reduceAxis) }

// Body returns the expression that defines each element of the output.
func (op *ComputeOp) Body() Expr { return op.body }

// InputTensors returns the tensors read by the body, in order of first appearance.
func (op *ComputeOp) InputTensors() []*Tensor { return op.inputs.Keys() }

// String implements fmt.Stringer.
func (op *ComputeOp) String() string {
	names := make([]string, len(op.axis))
	for ii, axis := range op.axis {
		names[ii] = axis.Var.name
	}
	s := fmt.Sprintf("%s = compute(%s: %s)", op.output, strings.Join(names, ", "), op.body)
	if op.tag != "" {
		s += fmt.Sprintf(" #%s", op.tag)
	}
	return s
}

type computeConfig struct {
	name       string
	tag        string
	indexNames []string
}

// ComputeOption configures Compute.
type ComputeOption func(*computeConfig)

// WithName sets the name of the compute operation (and its tensor). The default is "compute".
func WithName(name string) ComputeOption {
	return func(c *computeConfig) { c.name = name }
}

// WithTag sets the tag of the compute operation, used by scheduling passes to identify the operation pattern.
func WithTag(tag string) ComputeOption {
	return func(c *computeConfig) { c.tag = tag }
}

// WithIndexNames sets the names of the index variables, for printing. It must have one name per output axis.
func WithIndexNames(names ...string) ComputeOption {
	return func(c *computeConfig) { c.indexNames = names }
}

// Compute creates a tensor with the given shape, whose element at each index is given by the expression
// returned by fn. fn is called once, with one variable per output axis, and must return the body.
//
// Reductions (Sum) in the body bind their own axes; any other variable must be one of the given indices
// or a symbolic dimension. Tensors read must belong to the same graph.
func Compute(g *Graph, shape []Expr, fn func(indices []*Var) Expr, options ...ComputeOption) *Tensor {
	g.AssertValid()
	cfg := &computeConfig{name: "compute"}
	for _, option := range options {
		option(cfg)
	}
	if len(cfg.indexNames) != 0 && len(cfg.indexNames) != len(shape) {
		exceptions.Panicf("te.Compute(%q): %d index names given for a rank %d shape", cfg.name, len(cfg.indexNames), len(shape))
	}
	op := &ComputeOp{opBase: opBase{graph: g, name: cfg.name, tag: cfg.tag}}
	indices := make([]*Var, len(shape))
	op.axis = make([]*IterVar, len(shape))
	for ii, dim := range shape {
		assertIntExpr("Compute", dim)
		name := fmt.Sprintf("i%d", ii)
		if len(cfg.indexNames) > 0 {
			name = cfg.indexNames[ii]
		}
		indices[ii] = g.newVar(name, RoleIndex)
		op.axis[ii] = &IterVar{Var: indices[ii], Dom: RangeOf(dim), Kind: DataParallel, graph: g}
	}

	body := fn(indices)
	if body == nil {
		exceptions.Panicf("te.Compute(%q): body function returned nil", cfg.name)
	}
	if !body.DType().IsSupported() {
		exceptions.Panicf("te.Compute(%q): body %s has invalid dtype %s", cfg.name, body, body.DType())
	}
	op.body = body
	op.checkBody(body, nil)

	// Only a valid computation consumes ids and reduction axes.
	op.id = g.newOpID()
	Walk(body, func(e Expr) bool {
		if r, ok := e.(*Reduce); ok {
			for _, axis := range r.Axes {
				g.reducedBy[axis.Var.id] = r
			}
		}
		return true
	})
	op.output = &Tensor{op: op, shape: slices.Clone(shape), dtype: body.DType()}
	g.registerOp(op)
	klog.V(2).Infof("te.Compute: %s", op)
	return op.output
}

// checkBody validates the variables and tensors used in the body, and collects the input tensors and reduction axes.
// bound holds the reduction variables of the enclosing reductions.
func (op *ComputeOp) checkBody(expr Expr, bound []*Var) {
	switch e := expr.(type) {
	case *Var:
		switch e.role {
		case RoleIndex:
			for _, axis := range op.axis {
				if axis.Var == e {
					return
				}
			}
			exceptions.Panicf("te.Compute(%q): index variable %q doesn't belong to this computation", op.name, e.name)
		case RoleReduce:
			if !slices.Contains(bound, e) {
				exceptions.Panicf("te.Compute(%q): reduction variable %q used outside of its reduction", op.name, e.name)
			}
		}
	case *TensorRead:
		if e.Tensor.Graph() != op.graph {
			exceptions.Panicf("te.Compute(%q): tensor %s belongs to a different graph", op.name, e.Tensor)
		}
		op.inputs.Insert(e.Tensor)
		for _, idx := range e.Indices {
			op.checkBody(idx, bound)
		}
	case *Reduce:
		inner := slices.Clone(bound)
		for _, axis := range e.Axes {
			if axis.graph != op.graph {
				exceptions.Panicf("te.Compute(%q): reduction axis %q belongs to a different graph", op.name, axis.Var.name)
			}
			if slices.Contains(op.reduceAxis, axis) {
				exceptions.Panicf("te.Compute(%q): reduction axis %q used by more than one reduction", op.name, axis.Var.name)
			}
			if prev, found := op.graph.reducedBy[axis.Var.id]; found {
				exceptions.Panicf("te.Compute(%q): reduction axis %q is already reduced by %s", op.name, axis.Var.name, prev)
			}
			op.checkBody(axis.Dom.Min, bound)
			op.checkBody(axis.Dom.Extent, bound)
			op.reduceAxis = append(op.reduceAxis, axis)
			inner = append(inner, axis.Var)
		}
		op.checkBody(e.Source, inner)
	case *Binary:
		op.checkBody(e.A, bound)
		op.checkBody(e.B, bound)
	case *Call:
		for _, arg := range e.Args {
			op.checkBody(arg, bound)
		}
	case *CastExpr:
		op.checkBody(e.X, bound)
	}
}
