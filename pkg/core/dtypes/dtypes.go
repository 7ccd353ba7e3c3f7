// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes includes the DType enum for the element types a tensor expression can carry.
//
// The numeric values follow the XLA/PJRT buffer type enum, so they can be mapped 1:1 to a
// backend that consumes the produced graphs.
package dtypes

import (
	"strconv"
)

// DType is an enum that represents the data type of tensor elements and of scalar expressions.
type DType int32

const (
	// InvalidDType is the zero value, used for uninitialized expressions.
	InvalidDType DType = 0

	// Bool is a predicate: two-state boolean.
	Bool DType = 1

	// Int32 is a signed 32-bit integer.
	Int32 DType = 4

	// Int64 is a signed 64-bit integer. It is the dtype used for loop indices and symbolic dimensions.
	Int64 DType = 5

	// Float16 is the IEEE half-precision float.
	Float16 DType = 10

	// Float32 is the IEEE single-precision float.
	Float32 DType = 11

	// Float64 is the IEEE double-precision float.
	Float64 DType = 12

	// BFloat16 is the truncated 16-bit float: 1 sign bit, 8 exponent bits and 7 mantissa bits.
	BFloat16 DType = 13
)

// Aliases.
const (
	F16  = Float16
	F32  = Float32
	F64  = Float64
	BF16 = BFloat16
	S32  = Int32
	S64  = Int64
)

// MapOfNames maps the DType names to the DType.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"Bool":         Bool,
	"Int32":        Int32,
	"Int64":        Int64,
	"Float16":      Float16,
	"Float32":      Float32,
	"Float64":      Float64,
	"BFloat16":     BFloat16,
}

var dtypeNames = func() map[DType]string {
	names := make(map[DType]string, len(MapOfNames))
	for name, dtype := range MapOfNames {
		names[dtype] = name
	}
	return names
}()

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if name, found := dtypeNames[dtype]; found {
		return name
	}
	return "DType(" + strconv.Itoa(int(dtype)) + ")"
}

// Size returns the number of bytes of one element of the given DType.
func (dtype DType) Size() int {
	switch dtype {
	case Bool:
		return 1
	case Float16, BFloat16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// Memory returns the number of bytes for the given DType.
// It's an alias to Size, converted to uintptr.
func (dtype DType) Memory() uintptr {
	return uintptr(dtype.Size())
}

// IsFloat returns whether dtype is a supported float.
func (dtype DType) IsFloat() bool {
	return dtype == Float32 || dtype == Float64 || dtype == Float16 || dtype == BFloat16
}

// IsFloat16 returns whether dtype is a float with 16 bits: [Float16] or [BFloat16].
func (dtype DType) IsFloat16() bool {
	return dtype == Float16 || dtype == BFloat16
}

// IsInt returns whether dtype is a supported integer type.
func (dtype DType) IsInt() bool {
	return dtype == Int32 || dtype == Int64
}

// IsSupported returns whether dtype is one of the enumerated values.
func (dtype DType) IsSupported() bool {
	_, found := dtypeNames[dtype]
	return found && dtype != InvalidDType
}
