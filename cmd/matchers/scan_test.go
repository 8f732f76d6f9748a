package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanTree creates a small directory of haystacks.
func scanTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":           "needle in a haystack, another needle",
		"b.txt":           "nothing here",
		"sub/c.txt":       "needle",
		".hidden/d.txt":   "needle",
		"ignored.log":     "needle",
		".gitignore":      "*.log\n",
		"binary/blob.bin": "needle\x00",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestRunScan_Human(t *testing.T) {
	resetFlags()
	dir := scanTree(t)
	cmd, buf := newTestCommand()

	require.NoError(t, runScan(cmd, []string{dir, "needle"}))

	expected := "Using 'brute'.\n" +
		filepath.Join(dir, "a.txt") + ": Found matching positions at indices: 0, 30\n" +
		filepath.Join(dir, "sub", "c.txt") + ": Found matching position at index: 0\n"
	assert.Equal(t, expected, buf.String())
}

func TestRunScan_NoMatch(t *testing.T) {
	resetFlags()
	quiet = true
	dir := scanTree(t)
	cmd, buf := newTestCommand()

	require.NoError(t, runScan(cmd, []string{dir, "absent"}))
	assert.Equal(t, "Found no match.\n", buf.String())
}

func TestRunScan_JSON(t *testing.T) {
	resetFlags()
	scanFormat = "json"
	scanAlgorithm = "kmp"
	scanIncludeHidden = true
	scanIncludeBinary = true
	scanShowMisses = true
	dir := scanTree(t)
	cmd, buf := newTestCommand()

	require.NoError(t, runScan(cmd, []string{dir, "needle"}))

	var batch search.BatchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &batch))

	// a, b, c, .hidden/d, binary/blob and .gitignore; ignored.log stays out.
	require.Len(t, batch.Results, 6)
	assert.Equal(t, 5, batch.Total)
	for _, r := range batch.Results {
		assert.Equal(t, "kmp", r.Matcher)
		assert.NotEqual(t, filepath.Join(dir, "ignored.log"), r.Source)
	}
	assert.Equal(t, filepath.Join(dir, ".gitignore"), batch.Results[0].Source)
}

func TestRunScan_SARIF(t *testing.T) {
	resetFlags()
	scanFormat = "sarif"
	dir := scanTree(t)
	cmd, buf := newTestCommand()

	require.NoError(t, runScan(cmd, []string{dir, "needle"}))

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	runs := report["runs"].([]interface{})
	results := runs[0].(map[string]interface{})["results"].([]interface{})
	assert.Len(t, results, 3)
}

func TestRunScan_Datastore(t *testing.T) {
	resetFlags()
	scanDatastore = filepath.Join(t.TempDir(), "history.db")
	dir := scanTree(t)
	cmd, _ := newTestCommand()

	require.NoError(t, runScan(cmd, []string{dir, "needle"}))

	s, err := store.New(store.Config{Path: scanDatastore})
	require.NoError(t, err)
	defer s.Close()

	records, err := s.GetSearches()
	require.NoError(t, err)
	// Every searched file is recorded, matched or not.
	assert.Len(t, records, 3)
}

func TestRunScan_Errors(t *testing.T) {
	resetFlags()
	scanRequire = "bogus"
	cmd, _ := newTestCommand()
	assert.Error(t, runScan(cmd, []string{t.TempDir(), "x"}))

	resetFlags()
	scanFormat = "xml"
	scanDatastore = filepath.Join(t.TempDir(), "history.db")
	assert.ErrorContains(t, runScan(cmd, []string{scanTree(t), "needle"}), "unknown output format")
	assert.NoFileExists(t, scanDatastore)

	resetFlags()
	assert.Error(t, runScan(cmd, []string{filepath.Join(t.TempDir(), "missing"), "x"}))
}
