package arow

// Merge returns a new classifier whose mean and variance buffers are the
// elementwise average of c and other. The regularization strength is taken
// from the receiver. Both inputs are left unmodified.
//
// Averaging is equal-weight and pairwise: it combines models trained
// independently on disjoint data shards, with no renormalization by shard
// size. The operation is commutative.
func (c *Classifier) Merge(other *Classifier) (*Classifier, error) {
	if other.dim != c.dim {
		return nil, &ErrDimensionMismatch{Expected: c.dim, Actual: other.dim}
	}

	out, err := New(c.dim, WithR(c.r))
	if err != nil {
		return nil, err
	}
	out.mean.AddVec(c.mean, other.mean)
	out.mean.ScaleVec(0.5, out.mean)
	out.cov.AddVec(c.cov, other.cov)
	out.cov.ScaleVec(0.5, out.cov)
	return out, nil
}

// MergeInto averages other into c in place. The receiver keeps its r; other
// is left unmodified.
func (c *Classifier) MergeInto(other *Classifier) error {
	if other.dim != c.dim {
		return &ErrDimensionMismatch{Expected: c.dim, Actual: other.dim}
	}

	c.mean.AddVec(c.mean, other.mean)
	c.mean.ScaleVec(0.5, c.mean)
	c.cov.AddVec(c.cov, other.cov)
	c.cov.ScaleVec(0.5, c.cov)
	return nil
}
