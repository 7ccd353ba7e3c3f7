// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package te (tensor expressions) is used to describe tensor computations as a graph of
// declarative operations, to be lowered later by a scheduler into loop nests.
//
// The main elements in the package are:
//
//   - Graph: owns every tensor, operation and axis created for one computation. Ids are allocated
//     from monotonic counters, so two reduction axes never alias, even if they share a name and range.
//
//   - Tensor: an immutable handle to the output of an Operation. Operations are either a
//     Placeholder (an input) or a Compute, whose element at each index is given by a scalar Expr
//     built over the compute's index variables.
//
//   - Expr: a scalar symbolic expression: constants, variables, arithmetic (Add, Sub, Mul, Div, Pow, Sqrt),
//     tensor reads (Tensor.At) and reductions (Sum over ReduceAxis axes).
//
// Nothing is computed here: building a Compute only records its body.
//
// # Error Handling
//
// Like in graph building elsewhere, contract violations (wrong number of indices, mismatched dtypes,
// reusing a reduction axis in two reductions, etc.) "throw" errors with panic, with a stack-trace.
// Use exceptions.TryCatch[error] to convert them back to errors.
//
// A Graph is not safe for concurrent use: build each graph from a single goroutine.
package te

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// OpID is a unique id of an Operation within a Graph.
type OpID int

// Graph holds the operations, tensors and variables of one tensor-expression computation.
//
// Create it with New.
type Graph struct {
	id   uuid.UUID
	name string

	ops []Operation

	nextOpID  OpID
	nextVarID int

	// symbols maps the name of symbolic dimensions to their variables.
	symbols map[string]*Var

	// reducedBy records, for each reduction axis id, the Reduce expression that consumed it.
	reducedBy map[int]*Reduce
}

// New creates a new empty Graph with the given name.
func New(name string) *Graph {
	g := &Graph{
		id:        uuid.New(),
		name:      name,
		symbols:   make(map[string]*Var),
		reducedBy: make(map[int]*Reduce),
	}
	klog.V(2).Infof("te.New(%q): graph %s", name, g.id)
	return g
}

// ID uniquely identifies the graph.
func (g *Graph) ID() uuid.UUID { return g.id }

// Name of the graph.
func (g *Graph) Name() string { return g.name }

// NumOps returns the number of operations created in the graph so far.
func (g *Graph) NumOps() int { return len(g.ops) }

// Tensors returns the output tensors of all operations, in creation order.
func (g *Graph) Tensors() []*Tensor {
	tensors := make([]*Tensor, 0, len(g.ops))
	for _, op := range g.ops {
		tensors = append(tensors, op.Output())
	}
	return tensors
}

// AssertValid panics if graph is nil.
func (g *Graph) AssertValid() {
	if g == nil {
		exceptions.Panicf("te: Graph is nil")
	}
}

func (g *Graph) registerOp(op Operation) {
	g.ops = append(g.ops, op)
}

func (g *Graph) newOpID() OpID {
	id := g.nextOpID
	g.nextOpID++
	return id
}

func (g *Graph) newVar(name string, role VarRole) *Var {
	v := &Var{id: g.nextVarID, name: name, role: role}
	g.nextVarID++
	return v
}

// Var returns the symbolic dimension variable with the given name, creating it if needed.
// Symbolic dimensions are Int64 and are resolved by name when the graph is executed.
func (g *Graph) Var(name string) *Var {
	g.AssertValid()
	if name == "" {
		exceptions.Panicf("te.Graph.Var: symbolic dimensions must have a name")
	}
	if v, found := g.symbols[name]; found {
		return v
	}
	v := g.newVar(name, RoleSymbolic)
	g.symbols[name] = v
	return v
}

// String lists the tensors of the graph, one per line, with their definitions.
func (g *Graph) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "Graph %q: %d tensors\n", g.name, len(g.ops))
	for _, op := range g.ops {
		_, _ = fmt.Fprintf(&sb, "\t%s\n", op)
	}
	return sb.String()
}
