// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements a host-resident Tensor: a concrete shape plus its values.
//
// It is what a graph executor consumes as input and produces as output. Values are stored
// flat in row-major order as float64, and rounded to the tensor's DType when written.
package tensors

import (
	"math"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/texpr/texpr/pkg/core/dtypes"
	"github.com/texpr/texpr/pkg/core/dtypes/bfloat16"
	"github.com/texpr/texpr/pkg/core/shapes"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// Tensor holds concrete values for a shape.
type Tensor struct {
	shape shapes.Shape
	flat  []float64
}

// FromShape returns a zero-filled Tensor with the given shape.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.DType.IsFloat() && !shape.DType.IsInt() {
		exceptions.Panicf("tensors.FromShape(%s): only float and int dtypes are supported", shape)
	}
	return &Tensor{shape: shape.Clone(), flat: make([]float64, shape.Size())}
}

// FromFlatDataAndDimensions creates a Tensor from row-major flat data. The DType is
// derived from T.
func FromFlatDataAndDimensions[T constraints.Float](data []T, dimensions ...int) *Tensor {
	var dtype dtypes.DType
	switch any(T(0)).(type) {
	case float32:
		dtype = dtypes.Float32
	default:
		dtype = dtypes.Float64
	}
	return FromFlatDataAndShape(shapes.Make(dtype, dimensions...), data)
}

// FromFlatDataAndShape creates a Tensor with the given shape (and its DType) from row-major
// flat data. Values are rounded to the shape's DType.
func FromFlatDataAndShape[T constraints.Integer | constraints.Float](shape shapes.Shape, data []T) *Tensor {
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndShape(%s): got %d values, wanted %d", shape, len(data), shape.Size())
	}
	t := FromShape(shape)
	for ii, v := range data {
		t.flat[ii] = RoundToDType(float64(v), shape.DType)
	}
	return t
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank of the tensor.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size is the number of elements.
func (t *Tensor) Size() int { return len(t.flat) }

// Flat returns the underlying row-major values. It is not a copy: changes are visible.
func (t *Tensor) Flat() []float64 { return t.flat }

// FlatIndex converts indices to the flat position, checking bounds.
func (t *Tensor) FlatIndex(indices ...int) (int, error) {
	if len(indices) != t.shape.Rank() {
		return 0, errors.Errorf("tensor %s indexed with %d indices", t.shape, len(indices))
	}
	for axis, idx := range indices {
		if idx < 0 || idx >= t.shape.Dimensions[axis] {
			return 0, errors.Errorf("index %v out-of-bounds for axis %d of tensor %s", indices, axis, t.shape)
		}
	}
	return t.shape.FlatIndex(indices), nil
}

// At returns the value at the given indices. It panics if the indices are out-of-bounds.
func (t *Tensor) At(indices ...int) float64 {
	idx, err := t.FlatIndex(indices...)
	if err != nil {
		panic(err)
	}
	return t.flat[idx]
}

// Set the value at the given indices, rounded to the tensor DType. It panics if the indices are out-of-bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	idx, err := t.FlatIndex(indices...)
	if err != nil {
		panic(err)
	}
	t.flat[idx] = RoundToDType(value, t.shape.DType)
}

// RoundToDType rounds v to the nearest value representable in dtype.
//
// Integer dtypes truncate toward zero and saturate at the limits of the type. NaN becomes 0.
func RoundToDType(v float64, dtype dtypes.DType) float64 {
	switch dtype {
	case dtypes.Float32:
		return float64(float32(v))
	case dtypes.Float16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case dtypes.BFloat16:
		return bfloat16.Round(v)
	case dtypes.Int32:
		return saturate(v, math.MinInt32, math.MaxInt32)
	case dtypes.Int64:
		// float64(math.MaxInt64) rounds up to 2^63, the closest float64.
		return saturate(v, math.MinInt64, math.MaxInt64)
	default:
		return v
	}
}

// saturate truncates v toward zero and clamps it to [lo, hi].
func saturate(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= lo:
		return lo
	case v >= hi:
		return hi
	}
	return math.Trunc(v)
}
