// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAxisBindingsKey(t *testing.T) {
	tests := []struct {
		name     string
		bindings AxisBindings
		want     string
	}{
		{name: "empty", bindings: AxisBindings{}, want: ""},
		{name: "nil", bindings: nil, want: ""},
		{name: "single", bindings: AxisBindings{"batch": 32}, want: "batch=32"},
		{name: "insertion_order_ignored", bindings: AxisBindings{"width": 8, "batch": 2, "height": 4}, want: "batch=2,height=4,width=8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.bindings.Key())
		})
	}
}

func TestAxisBindingsClone(t *testing.T) {
	original := AxisBindings{"batch": 32, "height": 128}
	clone := original.Clone()
	require.Equal(t, original, clone)
	clone["batch"] = 64
	require.Equal(t, 32, original["batch"])

	var nilBindings AxisBindings
	require.Nil(t, nilBindings.Clone())
}

func TestAxisBindingsLookup(t *testing.T) {
	ab := AxisBindings{"height": 7}
	v, err := ab.Lookup("height")
	require.NoError(t, err)
	require.Equal(t, 7, v)
	_, err = ab.Lookup("width")
	require.ErrorContains(t, err, `"width"`)
}
