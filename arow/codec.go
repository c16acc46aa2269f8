package arow

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// The persisted model layout is fixed and unversioned:
//
//	uint64  dimension
//	float64 r
//	float64 mean[0..dimension)
//	float64 cov[0..dimension)
//
// All fields little-endian, no padding, no checksum. Changing this layout is
// a breaking change for every stored model.

// maxLoadDimension bounds the dimension accepted from a persisted file so a
// corrupt header cannot trigger a giant allocation.
const maxLoadDimension = 1 << 31

// Save writes the model in the fixed binary layout.
func (c *Classifier) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, uint64(c.dim)); err != nil {
		return fmt.Errorf("write dimension: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, c.r); err != nil {
		return fmt.Errorf("write r: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, c.mean.RawVector().Data); err != nil {
		return fmt.Errorf("write mean: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, c.cov.RawVector().Data); err != nil {
		return fmt.Errorf("write cov: %w", err)
	}
	return bw.Flush()
}

// Load reads a model written by Save. The stream is untrusted: the header and
// both buffers are re-validated against the state invariants, and structural
// violations surface as ErrCorruptData. Short reads surface as the underlying
// I/O error.
func Load(r io.Reader) (*Classifier, error) {
	br := bufio.NewReader(r)

	var dim uint64
	if err := binary.Read(br, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimension: %w", err)
	}
	if dim == 0 || dim > maxLoadDimension {
		return nil, fmt.Errorf("%w: dimension %d", ErrCorruptData, dim)
	}

	var rParam float64
	if err := binary.Read(br, binary.LittleEndian, &rParam); err != nil {
		return nil, fmt.Errorf("read r: %w", err)
	}
	if rParam <= 0 || math.IsNaN(rParam) || math.IsInf(rParam, 0) {
		return nil, fmt.Errorf("%w: r = %v", ErrCorruptData, rParam)
	}

	mean := make([]float64, dim)
	if err := binary.Read(br, binary.LittleEndian, mean); err != nil {
		return nil, fmt.Errorf("read mean: %w", err)
	}
	cov := make([]float64, dim)
	if err := binary.Read(br, binary.LittleEndian, cov); err != nil {
		return nil, fmt.Errorf("read cov: %w", err)
	}

	c, err := NewFromParams(int(dim), mean, cov, rParam)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return c, nil
}

// SaveFile creates or overwrites the file at path with the model.
func (c *Classifier) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	if err := c.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("write model file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close model file %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a model from the file at path.
func LoadFile(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load model file %s: %w", path, err)
	}
	return c, nil
}
