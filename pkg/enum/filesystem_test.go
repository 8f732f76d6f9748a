package enum

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}

// collectNames enumerates cfg and returns the sorted base names seen.
func collectNames(t *testing.T, cfg Config) []string {
	t.Helper()

	var mu sync.Mutex
	var names []string
	err := NewFilesystemEnumerator(cfg).Enumerate(context.Background(), func(content []byte, id types.HaystackID, path string) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, filepath.Base(path))
		return nil
	})
	require.NoError(t, err)

	sort.Strings(names)
	return names
}

func TestFilesystemEnumerator(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "file1.txt"), []byte("hello world"))
	writeFile(t, filepath.Join(tmpDir, "file2.txt"), []byte("test content"))
	writeFile(t, filepath.Join(tmpDir, "subdir", "subfile.txt"), []byte("nested content"))

	var mu sync.Mutex
	seen := map[string]types.HaystackID{}
	err := NewFilesystemEnumerator(Config{Root: tmpDir}).Enumerate(context.Background(), func(content []byte, id types.HaystackID, path string) error {
		assert.Equal(t, types.ComputeHaystackID(content), id)
		mu.Lock()
		seen[filepath.Base(path)] = id
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, 3)
	assert.Equal(t, types.ComputeHaystackID([]byte("nested content")), seen["subfile.txt"])
}

func TestFilesystemEnumerator_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only.txt")
	writeFile(t, path, []byte("abc"))

	assert.Equal(t, []string{"only.txt"}, collectNames(t, Config{Root: path}))
}

func TestFilesystemEnumerator_HiddenFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "visible.txt"), []byte("visible"))
	writeFile(t, filepath.Join(tmpDir, ".hidden.txt"), []byte("hidden"))
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), []byte("git config"))

	assert.Equal(t, []string{"visible.txt"}, collectNames(t, Config{Root: tmpDir}))
	assert.Equal(t, []string{".hidden.txt", "config", "visible.txt"}, collectNames(t, Config{Root: tmpDir, IncludeHidden: true}))
}

func TestFilesystemEnumerator_MaxFileSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "small.txt"), []byte("small"))
	writeFile(t, filepath.Join(tmpDir, "large.txt"), make([]byte, 100))

	// large.txt is all NUL bytes, so binary must be allowed for the size
	// limit to be the only filter.
	assert.Equal(t, []string{"small.txt"}, collectNames(t, Config{Root: tmpDir, MaxFileSize: 10, IncludeBinary: true}))
}

func TestFilesystemEnumerator_BinaryFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "text.txt"), []byte("text content"))
	writeFile(t, filepath.Join(tmpDir, "binary.bin"), []byte{0x00, 0x01, 0x02, 0x03, 0x04})

	assert.Equal(t, []string{"text.txt"}, collectNames(t, Config{Root: tmpDir}))
	assert.Equal(t, []string{"binary.bin", "text.txt"}, collectNames(t, Config{Root: tmpDir, IncludeBinary: true}))
}

func TestFilesystemEnumerator_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gitignore"), []byte("ignored.txt\n*.log\n"))
	writeFile(t, filepath.Join(tmpDir, "included.txt"), []byte("included"))
	writeFile(t, filepath.Join(tmpDir, "ignored.txt"), []byte("ignored1"))
	writeFile(t, filepath.Join(tmpDir, "test.log"), []byte("ignored2"))

	assert.Equal(t, []string{".gitignore", "included.txt"}, collectNames(t, Config{Root: tmpDir, IncludeHidden: true}))
}

func TestFilesystemEnumerator_CurrentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "haystack.txt"), []byte("needle"))

	t.Chdir(tmpDir)

	assert.Equal(t, []string{"haystack.txt"}, collectNames(t, Config{Root: "."}))
}

func TestFilesystemEnumerator_MissingRoot(t *testing.T) {
	err := NewFilesystemEnumerator(Config{Root: filepath.Join(t.TempDir(), "nope")}).Enumerate(context.Background(), func([]byte, types.HaystackID, string) error {
		return nil
	})
	assert.Error(t, err)
}

func TestFilesystemEnumerator_CallbackError(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), []byte("a"))

	err := NewFilesystemEnumerator(Config{Root: tmpDir}).Enumerate(context.Background(), func([]byte, types.HaystackID, string) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFilesystemEnumerator_ContextCancellation(t *testing.T) {
	tmpDir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, filepath.Join(tmpDir, string(rune('a'+i))+".txt"), []byte("content"))
	}

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var count int
	err := NewFilesystemEnumerator(Config{Root: tmpDir, Workers: 1}).Enumerate(ctx, func([]byte, types.HaystackID, string) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		if count == 3 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"current dir", ".", false},
		{"parent dir", "..", false},
		{"hidden file", ".hidden", true},
		{"hidden directory", ".git", true},
		{"normal file", "file.txt", false},
		{"normal directory", "src", false},
		{"dotfile", ".gitignore", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isHidden(tt.filename))
		})
	}
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary(nil))
	assert.False(t, isBinary([]byte("plain text")))
	assert.True(t, isBinary([]byte{'a', 0, 'b'}))

	late := make([]byte, binarySniffSize+10)
	for i := range late {
		late[i] = 'x'
	}
	late[binarySniffSize+5] = 0
	assert.False(t, isBinary(late))
}
