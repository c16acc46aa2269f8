package dataset

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/gostatml/go-arow/arow"
)

const sampleData = `# comment line
+1 0:1.5 3:-2.0
-1 1:0.25

1 2:1e-3
-1 0:-1 4:4
`

func TestRead(t *testing.T) {
	examples, dim, err := Read(strings.NewReader(sampleData))
	require.NoError(t, err)
	require.Len(t, examples, 4)
	require.Equal(t, 5, dim)

	require.Equal(t, 1, examples[0].Label)
	require.Equal(t, arow.FeatureVector{0: 1.5, 3: -2.0}, examples[0].Features)

	require.Equal(t, -1, examples[1].Label)
	require.Equal(t, arow.FeatureVector{1: 0.25}, examples[1].Features)

	// Bare "1" is the positive class.
	require.Equal(t, 1, examples[2].Label)
	require.Equal(t, arow.FeatureVector{2: 1e-3}, examples[2].Features)

	require.Equal(t, arow.FeatureVector{0: -1, 4: 4}, examples[3].Features)
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"bad label", "2 0:1\n", "invalid label"},
		{"bad index", "+1 x:1\n", "invalid feature index"},
		{"negative index", "+1 -3:1\n", "invalid feature"},
		{"bad value", "+1 0:abc\n", "invalid feature value"},
		{"missing value", "+1 0:\n", "invalid feature"},
		{"missing colon", "+1 017\n", "invalid feature"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tc.data))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
			require.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestReadErrorLineNumber(t *testing.T) {
	data := "+1 0:1\n# note\n-1 1:1\nbogus 2:1\n"
	_, _, err := Read(strings.NewReader(data))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 4")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.dat")
	require.NoError(t, os.WriteFile(path, []byte(sampleData), 0o644))

	examples, dim, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, examples, 4)
	require.Equal(t, 5, dim)
}

func TestReadFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.dat.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleData))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	examples, dim, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, examples, 4)
	require.Equal(t, 5, dim)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.dat"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestShuffleDeterministic(t *testing.T) {
	make10 := func() []arow.Example {
		var out []arow.Example
		for i := 0; i < 10; i++ {
			out = append(out, arow.Example{Features: arow.FeatureVector{i: 1}, Label: 1})
		}
		return out
	}

	a := make10()
	b := make10()
	Shuffle(rand.New(rand.NewSource(7)), a)
	Shuffle(rand.New(rand.NewSource(7)), b)
	require.Equal(t, a, b)

	c := make10()
	Shuffle(rand.New(rand.NewSource(8)), c)
	require.NotEqual(t, a, c)
}

func TestSplit(t *testing.T) {
	examples := make([]arow.Example, 10)
	for i := range examples {
		examples[i] = arow.Example{Features: arow.FeatureVector{i: 1}, Label: 1}
	}

	shards := Split(examples, 3)
	require.Len(t, shards, 3)
	require.Len(t, shards[0], 4)
	require.Len(t, shards[1], 3)
	require.Len(t, shards[2], 3)

	total := 0
	for _, s := range shards {
		total += len(s)
	}
	require.Equal(t, len(examples), total)

	// More shards than examples collapses to one per example.
	shards = Split(examples[:2], 5)
	require.Len(t, shards, 2)

	// n <= 1 returns the input as a single shard.
	shards = Split(examples, 1)
	require.Len(t, shards, 1)
	require.Len(t, shards[0], 10)
}
