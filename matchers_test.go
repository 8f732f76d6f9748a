package matchers

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/matchers/pkg/registry"
	"github.com/praetorian-inc/matchers/pkg/types"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     []int
	}{
		{"two matches", "abcdfffggffgg", "fgg", []int{6, 10}},
		{"no match", "Hello World", "xyz", []int{}},
		{"overlapping", "aaaa", "aa", []int{0, 1, 2}},
		{"whole haystack", "abc", "abc", []int{0}},
		{"needle longer", "ab", "abc", []int{}},
		{"empty needle", "abc", "", []int{}},
		{"empty haystack", "", "a", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Find(tt.haystack, tt.needle))
		})
	}
}

type failingMatcher struct{ name string }

func (f failingMatcher) Name() string { return f.name }

func (failingMatcher) Match(haystack, needle []byte) ([]int, error) {
	return nil, errors.New("engine failure")
}

func TestFindIn_FallsBackOnError(t *testing.T) {
	reg := registry.NewDefault()
	require.NoError(t, reg.Register(failingMatcher{"flaky"}, types.Descriptor{
		Name:            "flaky",
		Characteristics: types.Characteristics{Fast: true, Stable: true},
	}))
	reg.Freeze()

	assert.Equal(t, []int{6, 10}, findIn(reg, []byte("abcdfffggffgg"), []byte("fgg")))
}

func TestFindIn_FailingDefault(t *testing.T) {
	def := registry.Entry{
		Descriptor: types.Descriptor{Name: "brute"},
		Matcher:    failingMatcher{"brute"},
	}
	reg, err := registry.New(def)
	require.NoError(t, err)
	reg.Freeze()

	assert.Equal(t, []int{}, findIn(reg, []byte("abc"), []byte("b")))
}

func TestNewSearcher_Defaults(t *testing.T) {
	s, err := NewSearcher()
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "kmp", s.Matcher())

	descs := s.Matchers()
	require.NotEmpty(t, descs)
	assert.Equal(t, "brute", descs[0].Name)

	history, err := s.History()
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestNewSearcher_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{"algorithm", []Option{WithAlgorithm("rabin-karp")}, "rabin-karp"},
		{"unknown algorithm", []Option{WithAlgorithm("boyer-moore")}, "brute"},
		{"requirement", []Option{WithRequirement("experimental")}, "kmp-parallel"},
		{"unsatisfiable requirement", []Option{WithRequirement("stable,experimental")}, "brute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSearcher(tt.opts...)
			require.NoError(t, err)
			defer s.Close()

			assert.Equal(t, tt.want, s.Matcher())
			offsets, err := s.FindString("abcdfffggffgg", "fgg")
			require.NoError(t, err)
			assert.Equal(t, []int{6, 10}, offsets)
		})
	}
}

func TestNewSearcher_BadRequirement(t *testing.T) {
	_, err := NewSearcher(WithRequirement("quick"))
	assert.ErrorContains(t, err, "unknown characteristic")
}

func TestWithCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(`matchers:
  - name: rabin-karp
    fast: true
    stable: true
`), 0o644))

	s, err := NewSearcher(WithCatalog(path))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "rabin-karp", s.Matcher())
	names := make([]string, 0)
	for _, d := range s.Matchers() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"rabin-karp", "brute"}, names)

	_, err = NewSearcher(WithCatalog(filepath.Join(t.TempDir(), "missing.yml")))
	assert.ErrorContains(t, err, "loading catalog")
}

func TestWithStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewSearcher(WithStore(path), WithPrefilter())
	require.NoError(t, err)

	_, err = s.FindString("aaaa", "aa")
	require.NoError(t, err)
	_, err = s.FindString("Hello World", "xyz")
	require.NoError(t, err)

	history, err := s.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, []int{0, 1, 2}, history[0].Offsets)
	assert.Equal(t, "kmp", history[0].Matcher)
	assert.Empty(t, history[1].Offsets)
	require.NoError(t, s.Close())
}

func TestFindFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haystack.txt")
	require.NoError(t, os.WriteFile(path, []byte("abcdfffggffgg"), 0o644))

	s, err := NewSearcher()
	require.NoError(t, err)
	defer s.Close()

	offsets, err := s.FindFile(path, []byte("fgg"))
	require.NoError(t, err)
	assert.Equal(t, []int{6, 10}, offsets)

	_, err = s.FindFile(filepath.Join(t.TempDir(), "missing.txt"), []byte("x"))
	assert.ErrorContains(t, err, "reading file")
}

func TestSearcher_Concurrent(t *testing.T) {
	s, err := NewSearcher(WithStore(":memory:"))
	require.NoError(t, err)
	defer s.Close()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			offsets, err := s.FindString("abababab", "aba")
			assert.NoError(t, err)
			assert.Equal(t, []int{0, 2, 4}, offsets)
		}()
	}
	wg.Wait()

	history, err := s.History()
	require.NoError(t, err)
	assert.Len(t, history, 8)
}
