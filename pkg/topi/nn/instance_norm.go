// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package nn builds the tensor-expression graphs of neural network operators.
//
// Operators only describe the computation: they create te.Compute nodes and return the output
// tensor handle. Lowering and execution are done by whoever consumes the graph.
package nn

import (
	"github.com/gomlx/exceptions"
	"github.com/texpr/texpr/pkg/core/te"
	"github.com/texpr/texpr/pkg/topi/tags"
	"k8s.io/klog/v2"
)

// InstanceNormOpName is the operator name used in errors.
const InstanceNormOpName = "InstanceNormInference"

// InstanceNormBuilder is a helper to build an instance normalization computation. Create it with InstanceNorm,
// set the desired parameters and when all is set, call Done.
type InstanceNormBuilder struct {
	x, gamma, beta *te.Tensor
	epsilon        float64
	fixGamma       bool
	name, tag      string
}

// InstanceNormStats holds the output of an instance normalization and its intermediary statistics,
// all with shape [batch, channel] except Output, which has the shape of the input.
//
// Schedulers use them to place the reductions.
type InstanceNormStats struct {
	Output, Mean, MeanSquare, Variance *te.Tensor
}

// InstanceNorm normalizes x, with layout [batch, channel, height, width], over its spatial axes, separately for
// each batch example and channel:
//
//	out[b, c, h, w] = (x[b, c, h, w] - mean[b, c]) / sqrt(var[b, c] + epsilon) * gamma[c] + beta[c]
//
// gamma and beta have shape [channel]. Their sizes are not checked.
//
// The variance is computed as E[x²] - E[x]², with two independent reductions. It is not clamped: with
// near constant inputs it may come out slightly negative, hidden by epsilon.
//
// It returns an InstanceNormBuilder for configuration. Once it is set up call InstanceNormBuilder.Done.
func InstanceNorm(x, gamma, beta *te.Tensor) *InstanceNormBuilder {
	return &InstanceNormBuilder{
		x:       x,
		gamma:   gamma,
		beta:    beta,
		epsilon: 1e-5,
		name:    "tensor",
		tag:     tags.Broadcast,
	}
}

// Epsilon is added to the variance before the square root, to avoid dividing by zero. It defaults to 1e-5.
//
// It is not validated: it should be > 0.
func (b *InstanceNormBuilder) Epsilon(value float64) *InstanceNormBuilder {
	b.epsilon = value
	return b
}

// FixGamma holds gamma at 1: gamma is not read, and can be nil. It defaults to false.
func (b *InstanceNormBuilder) FixGamma(value bool) *InstanceNormBuilder {
	b.fixGamma = value
	return b
}

// Name of the output tensor. It defaults to "tensor".
func (b *InstanceNormBuilder) Name(name string) *InstanceNormBuilder {
	b.name = name
	return b
}

// Tag of the output tensor. It defaults to tags.Broadcast.
func (b *InstanceNormBuilder) Tag(tag string) *InstanceNormBuilder {
	b.tag = tag
	return b
}

// Done builds the normalization graph and returns its output, with the same shape as x.
//
// It panics with a *te.ShapeError if x is not 4-D, before creating any node.
func (b *InstanceNormBuilder) Done() *te.Tensor {
	return b.DoneWithStats().Output
}

// DoneWithStats is like Done, but also returns the intermediary statistics.
func (b *InstanceNormBuilder) DoneWithStats() *InstanceNormStats {
	checkInstanceNormInput(b.x, b.gamma, b.beta, b.fixGamma)

	stats := &InstanceNormStats{}
	stats.Mean = spatialMean(b.x)
	stats.MeanSquare = spatialMeanSquare(b.x)
	stats.Variance = spatialVariance(stats.MeanSquare, stats.Mean)

	normalize := normalizeLearnedGamma
	if b.fixGamma {
		normalize = normalizeFixedGamma
	}
	stats.Output = normalize(b.x, b.gamma, b.beta, stats.Mean, stats.Variance, b.epsilon,
		te.WithName(b.name), te.WithTag(b.tag), te.WithIndexNames("b", "c", "h", "w"))
	klog.V(1).Infof("nn.%s(%s, eps=%g, fixGamma=%v) -> %s", InstanceNormOpName, b.x, b.epsilon, b.fixGamma, stats.Output)
	return stats
}

// Option configures InstanceNormInference.
type Option func(*InstanceNormBuilder)

// WithName sets the name of the output tensor.
func WithName(name string) Option {
	return func(b *InstanceNormBuilder) { b.name = name }
}

// WithTag sets the tag of the output tensor.
func WithTag(tag string) Option {
	return func(b *InstanceNormBuilder) { b.tag = tag }
}

// InstanceNormInference is the instance normalization for inference, in NCHW layout. See InstanceNorm for details.
//
// x must be 4-D, with shape [batch, channel, height, width]; gamma and beta are 1-D with shape [channel].
// If fixGamma is true, gamma is held at 1 (and not read).
//
// It panics with a *te.ShapeError if x is not 4-D. See TryInstanceNormInference for a version that returns the error.
func InstanceNormInference(x, gamma, beta *te.Tensor, eps float64, fixGamma bool, options ...Option) *te.Tensor {
	b := InstanceNorm(x, gamma, beta).Epsilon(eps).FixGamma(fixGamma)
	for _, option := range options {
		option(b)
	}
	return b.Done()
}

// TryInstanceNormInference is like InstanceNormInference, but returns any error instead of panicking.
// Use errors.As to check for a *te.ShapeError.
func TryInstanceNormInference(x, gamma, beta *te.Tensor, eps float64, fixGamma bool, options ...Option) (*te.Tensor, error) {
	var out *te.Tensor
	err := exceptions.TryCatch[error](func() {
		out = InstanceNormInference(x, gamma, beta, eps, fixGamma, options...)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkInstanceNormInput(x, gamma, beta *te.Tensor, fixGamma bool) {
	if x == nil || beta == nil || (gamma == nil && !fixGamma) {
		exceptions.Panicf("nn.%s: x, beta and (unless fixGamma) gamma must be given", InstanceNormOpName)
	}
	if err := te.CheckRank(InstanceNormOpName, x, 4); err != nil {
		panic(err)
	}
}

// spatialMean returns mean[b, c] = Σ_{h,w} x[b, c, h, w] / (height * width).
func spatialMean(x *te.Tensor) *te.Tensor {
	return spatialAverage(x, "mean", "", func(v te.Expr) te.Expr { return v })
}

// spatialMeanSquare returns meanSq[b, c] = Σ_{h,w} x[b, c, h, w]² / (height * width).
func spatialMeanSquare(x *te.Tensor) *te.Tensor {
	return spatialAverage(x, "mean_sq", "2", te.Square)
}

// spatialAverage averages fn(x) over the height and width axes. Each call allocates its own reduction axes,
// named rh<suffix> and rw<suffix>.
//
// The division by height*width happens on each element, before the summation.
func spatialAverage(x *te.Tensor, name, suffix string, fn func(te.Expr) te.Expr) *te.Tensor {
	g := x.Graph()
	batch, channel, height, width := x.Dim(0), x.Dim(1), x.Dim(2), x.Dim(3)
	rh := te.ReduceAxis(g, te.RangeOf(height), "rh"+suffix)
	rw := te.ReduceAxis(g, te.RangeOf(width), "rw"+suffix)
	size := te.Mul(height, width)
	return te.Compute(g, []te.Expr{batch, channel}, func(i []*te.Var) te.Expr {
		return te.Sum(te.Div(fn(x.At(i[0], i[1], rh.Var, rw.Var)), size), rh, rw)
	}, te.WithName(name), te.WithIndexNames("b", "c"))
}

// spatialVariance returns var[b, c] = meanSq[b, c] - mean[b, c]².
func spatialVariance(meanSq, mean *te.Tensor) *te.Tensor {
	return te.Compute(mean.Graph(), mean.Shape(), func(i []*te.Var) te.Expr {
		return te.Sub(meanSq.AtVars(i...), te.Square(mean.AtVars(i...)))
	}, te.WithName("var"), te.WithIndexNames("b", "c"))
}

// normalizedAt returns (x[b, c, h, w] - mean[b, c]) / sqrt(variance[b, c] + eps).
func normalizedAt(x, mean, variance *te.Tensor, eps float64, i []*te.Var) te.Expr {
	b, c := i[0], i[1]
	centered := te.Sub(x.AtVars(i...), mean.AtVars(b, c))
	return te.Div(centered, te.Sqrt(te.Add(variance.AtVars(b, c), te.ConstAs(variance.DType(), eps))))
}

// normalizeFixedGamma is the normalization with gamma held at 1: gamma is ignored.
func normalizeFixedGamma(x, _, beta, mean, variance *te.Tensor, eps float64, options ...te.ComputeOption) *te.Tensor {
	return te.Compute(x.Graph(), x.Shape(), func(i []*te.Var) te.Expr {
		return te.Add(normalizedAt(x, mean, variance, eps, i), beta.AtVars(i[1]))
	}, options...)
}

// normalizeLearnedGamma is the normalization scaled by gamma[c].
func normalizeLearnedGamma(x, gamma, beta, mean, variance *te.Tensor, eps float64, options ...te.ComputeOption) *te.Tensor {
	return te.Compute(x.Graph(), x.Shape(), func(i []*te.Var) te.Expr {
		return te.Add(te.Mul(normalizedAt(x, mean, variance, eps, i), gamma.AtVars(i[1])), beta.AtVars(i[1]))
	}, options...)
}
