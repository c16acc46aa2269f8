// Package arow implements Adaptive Regularization of Weight Vectors (AROW),
// an online confidence-weighted linear classifier for binary labels.
//
// The classifier keeps a per-feature mean weight and a per-feature variance
// ("confidence") over a fixed, pre-declared feature dimension. Both are
// refined one labeled example at a time; earlier examples are never revisited.
// Features arrive as sparse vectors, the model buffers are dense.
package arow

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultR is the regularization strength used when no WithR option is given.
const DefaultR = 0.1

// FeatureVector maps a feature index to its real-valued weight.
// Indices must lie in [0, dimension). The classifier only reads it.
type FeatureVector map[int]float64

// Example is a single labeled training instance. Label must be +1 or -1.
type Example struct {
	Features FeatureVector
	Label    int
}

// Classifier holds the AROW model state: dense mean and variance buffers of a
// fixed dimension plus the regularization parameter r.
//
// A Classifier is not safe for concurrent use. The intended parallel pattern
// is one private Classifier per worker over a disjoint data shard, folded
// afterwards with Merge or MergeInto (see TrainShards).
type Classifier struct {
	dim int
	r   float64

	mean *mat.VecDense // per-feature mean weights, zero-initialized
	cov  *mat.VecDense // per-feature variance, one-initialized, always > 0
}

// Option configures a Classifier at construction time.
type Option func(*Classifier)

// WithR sets the regularization strength r. Larger values make the
// per-update confidence tightening more conservative.
func WithR(r float64) Option {
	return func(c *Classifier) {
		c.r = r
	}
}

// New creates a fresh classifier of the given dimension with mean weights at
// zero and all variances at one.
func New(dimension int, options ...Option) (*Classifier, error) {
	c := &Classifier{
		dim: dimension,
		r:   DefaultR,
	}
	for _, opt := range options {
		opt(c)
	}

	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidArgument, dimension)
	}
	if c.r <= 0 || math.IsNaN(c.r) || math.IsInf(c.r, 0) {
		return nil, fmt.Errorf("%w: r must be strictly positive, got %v", ErrInvalidArgument, c.r)
	}

	c.mean = mat.NewVecDense(dimension, nil)
	covData := make([]float64, dimension)
	for i := range covData {
		covData[i] = 1.0
	}
	c.cov = mat.NewVecDense(dimension, covData)

	return c, nil
}

// NewFromParams reconstructs a classifier from explicit buffers, re-validating
// every state invariant. The slices are copied; the caller keeps ownership.
func NewFromParams(dimension int, mean, cov []float64, r float64) (*Classifier, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidArgument, dimension)
	}
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("%w: r must be strictly positive, got %v", ErrInvalidArgument, r)
	}
	if len(mean) != dimension {
		return nil, fmt.Errorf("%w: mean length %d != dimension %d", ErrInvalidArgument, len(mean), dimension)
	}
	if len(cov) != dimension {
		return nil, fmt.Errorf("%w: cov length %d != dimension %d", ErrInvalidArgument, len(cov), dimension)
	}
	for i, v := range mean {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite mean value %v at index %d", ErrInvalidArgument, v, i)
		}
	}
	for i, v := range cov {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("%w: cov value %v at index %d must be finite and strictly positive", ErrInvalidArgument, v, i)
		}
	}

	meanData := make([]float64, dimension)
	copy(meanData, mean)
	covData := make([]float64, dimension)
	copy(covData, cov)

	return &Classifier{
		dim:  dimension,
		r:    r,
		mean: mat.NewVecDense(dimension, meanData),
		cov:  mat.NewVecDense(dimension, covData),
	}, nil
}

// Dimension returns the declared feature dimension.
func (c *Classifier) Dimension() int { return c.dim }

// R returns the regularization strength.
func (c *Classifier) R() float64 { return c.r }

// Mean returns a copy of the mean weight buffer.
func (c *Classifier) Mean() []float64 {
	out := make([]float64, c.dim)
	copy(out, c.mean.RawVector().Data)
	return out
}

// Cov returns a copy of the variance buffer.
func (c *Classifier) Cov() []float64 {
	out := make([]float64, c.dim)
	copy(out, c.cov.RawVector().Data)
	return out
}

// validate checks every index and value of f against the declared dimension.
func (c *Classifier) validate(f FeatureVector) error {
	for i, v := range f {
		if i < 0 || i >= c.dim {
			return &ErrIndexOutOfRange{Index: i, Dimension: c.dim}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite feature value %v at index %d", ErrInvalidArgument, v, i)
		}
	}
	return nil
}

// Margin returns the dot product of the mean weights and f. Only indices
// present in f contribute. An empty vector yields margin 0.
func (c *Classifier) Margin(f FeatureVector) (float64, error) {
	if err := c.validate(f); err != nil {
		return 0, err
	}
	return c.margin(f), nil
}

func (c *Classifier) margin(f FeatureVector) float64 {
	mean := c.mean.RawVector().Data
	m := 0.0
	for i, v := range f {
		m += mean[i] * v
	}
	return m
}

// Confidence returns the variance of the margin estimate for f,
// sum of cov[i]*f[i]^2 over the indices present in f. Always >= 0,
// and 0 exactly when f is empty.
func (c *Classifier) Confidence(f FeatureVector) (float64, error) {
	if err := c.validate(f); err != nil {
		return 0, err
	}
	return c.confidence(f), nil
}

func (c *Classifier) confidence(f FeatureVector) float64 {
	cov := c.cov.RawVector().Data
	conf := 0.0
	for i, v := range f {
		conf += cov[i] * v * v
	}
	return conf
}

// Update applies one step of the AROW online update for a labeled example and
// returns the zero-one loss of the pre-update prediction: 1 if the example
// was misclassified, 0 otherwise.
//
// The model mutates whenever margin*label < 1, which is a strictly wider
// condition than the reported loss: a correctly classified example with a low
// margin still tightens the confidence but reports loss 0. On any error the
// state is left untouched.
func (c *Classifier) Update(f FeatureVector, label int) (int, error) {
	if label != 1 && label != -1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLabel, label)
	}
	if err := c.validate(f); err != nil {
		return 0, err
	}

	y := float64(label)
	m := c.margin(f)
	if m*y >= 1 {
		return 0, nil
	}

	conf := c.confidence(f)
	beta := 1.0 / (conf + c.r)
	alpha := (1.0 - y*m) * beta

	mean := c.mean.RawVector().Data
	cov := c.cov.RawVector().Data

	// The mean step for every touched index uses the variance as it stood
	// before this call, so the two passes must not interleave.
	for i, v := range f {
		mean[i] += alpha * cov[i] * y * v
	}
	for i, v := range f {
		cov[i] = 1.0 / (1.0/cov[i] + v*v/c.r)
	}

	// Zero-one loss of the pre-update prediction, with the same tie-break as
	// Predict: a zero margin counts as a negative prediction, so it is a
	// mistake exactly when the label is positive.
	predicted := -1
	if m > 0 {
		predicted = 1
	}
	if predicted != label {
		return 1, nil
	}
	return 0, nil
}

// Predict returns +1 if the margin of f is strictly positive and -1
// otherwise. A zero margin, including the empty-vector case, yields -1.
func (c *Classifier) Predict(f FeatureVector) (int, error) {
	m, err := c.Margin(f)
	if err != nil {
		return 0, err
	}
	if m > 0 {
		return 1, nil
	}
	return -1, nil
}

// Fit performs one sequential pass of Update over examples and returns the
// cumulative zero-one mistake count.
func (c *Classifier) Fit(examples []Example) (int, error) {
	mistakes := 0
	for i, ex := range examples {
		loss, err := c.Update(ex.Features, ex.Label)
		if err != nil {
			return mistakes, fmt.Errorf("example %d: %w", i, err)
		}
		mistakes += loss
	}
	return mistakes, nil
}
