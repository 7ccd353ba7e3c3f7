// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"
)

// String implements fmt.Stringer with a compact nested representation, e.g. "(Float32)[2 2]{{1, 2}, {3, 4}}".
func (t *Tensor) String() string {
	return t.Summary(6)
}

// Summary returns the shape followed by all values printed with the given precision,
// nested like Go slices.
func (t *Tensor) Summary(precision int) string {
	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }
	w("%s", t.shape)
	if t.shape.IsZeroSize() {
		return buf.String()
	}
	dims := t.shape.Dimensions
	var recursive func(axis, offset, stride int)
	recursive = func(axis, offset, stride int) {
		if axis == len(dims) {
			w("%.*g", precision, t.flat[offset])
			return
		}
		stride /= dims[axis]
		w("{")
		for ii := range dims[axis] {
			if ii > 0 {
				w(", ")
			}
			recursive(axis+1, offset+ii*stride, stride)
		}
		w("}")
	}
	if t.shape.IsScalar() {
		w("{")
		recursive(0, 0, 1)
		w("}")
	} else {
		recursive(0, 0, t.shape.Size())
	}
	return buf.String()
}
