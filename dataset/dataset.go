// Package dataset reads labeled sparse-feature data in the line-oriented
// svmlight-like text format:
//
//	<label> <index>:<value> <index>:<value> ...
//
// where label is +1 or -1 (a bare "1" is accepted for the positive class) and
// indices are non-negative integers. Blank lines and lines starting with '#'
// are skipped. Files ending in ".gz" are decompressed transparently.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gostatml/go-arow/arow"
)

// Read parses labeled examples from r. It returns the examples and the
// smallest dimension that covers every feature index seen (max index + 1).
func Read(r io.Reader) ([]arow.Example, int, error) {
	var examples []arow.Example
	maxIndex := -1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		label, err := parseLabel(fields[0])
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", lineNo, err)
		}

		features := make(arow.FeatureVector, len(fields)-1)
		for _, tok := range fields[1:] {
			idx, val, err := parseFeature(tok)
			if err != nil {
				return nil, 0, fmt.Errorf("line %d: %w", lineNo, err)
			}
			features[idx] = val
			if idx > maxIndex {
				maxIndex = idx
			}
		}

		examples = append(examples, arow.Example{Features: features, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("line %d: %w", lineNo, err)
	}

	return examples, maxIndex + 1, nil
}

// ReadFile parses labeled examples from the file at path, decompressing
// gzip-compressed files by their ".gz" suffix.
func ReadFile(path string) ([]arow.Example, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, 0, fmt.Errorf("open gzip data file %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	examples, dim, err := Read(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read data file %s: %w", path, err)
	}
	return examples, dim, nil
}

func parseLabel(tok string) (int, error) {
	switch tok {
	case "+1", "1":
		return 1, nil
	case "-1":
		return -1, nil
	default:
		return 0, fmt.Errorf("invalid label %q", tok)
	}
}

func parseFeature(tok string) (int, float64, error) {
	sep := strings.IndexByte(tok, ':')
	if sep <= 0 || sep == len(tok)-1 {
		return 0, 0, fmt.Errorf("invalid feature %q", tok)
	}
	idx, err := strconv.Atoi(tok[:sep])
	if err != nil || idx < 0 {
		return 0, 0, fmt.Errorf("invalid feature index %q", tok[:sep])
	}
	val, err := strconv.ParseFloat(tok[sep+1:], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid feature value %q", tok[sep+1:])
	}
	return idx, val, nil
}

// Shuffle permutes examples in place using rng.
func Shuffle(rng *rand.Rand, examples []arow.Example) {
	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
}

// Split partitions examples into n contiguous shards of near-equal size.
// The final shards may be one example shorter when the sizes do not divide
// evenly. Shards share backing storage with examples.
func Split(examples []arow.Example, n int) [][]arow.Example {
	if n <= 1 || len(examples) <= 1 {
		return [][]arow.Example{examples}
	}
	if n > len(examples) {
		n = len(examples)
	}

	shards := make([][]arow.Example, 0, n)
	size := len(examples) / n
	rem := len(examples) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		shards = append(shards, examples[start:end])
		start = end
	}
	return shards
}
