package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCore(t *testing.T) *search.Core {
	t.Helper()
	core, err := search.NewCore(search.Config{Store: store.NewMemory()})
	require.NoError(t, err)
	t.Cleanup(func() { core.Close() })
	return core
}

func runServer(t *testing.T, input string) []Response {
	t.Helper()
	out := &bytes.Buffer{}
	srv := NewServer(newCore(t), strings.NewReader(input), out)
	require.NoError(t, srv.Run(context.Background()))

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	in := strings.NewReader("")
	out := &bytes.Buffer{}

	srv := NewServer(newCore(t), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = srv.Run(ctx)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ready", resp.Type)

	var ready ReadyData
	require.NoError(t, json.Unmarshal(resp.Data, &ready))
	assert.Equal(t, Version, ready.Version)
	assert.Greater(t, ready.Matchers, 0)
}

func TestServer_Match(t *testing.T) {
	responses := runServer(t, `{"type":"match","payload":{"haystack":"abcdfffggffgg","needle":"fgg","algorithm":"kmp"}}`+"\n")
	require.Len(t, responses, 2)

	resp := responses[1]
	assert.True(t, resp.Success)
	assert.Equal(t, "match", resp.Type)

	var result search.Result
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "kmp", result.Matcher)
	assert.Equal(t, []int{6, 10}, result.Offsets)
}

func TestServer_MatchNoResults(t *testing.T) {
	responses := runServer(t, `{"type":"match","payload":{"haystack":"Hello World","needle":"xyz"}}`+"\n")
	require.Len(t, responses, 2)
	assert.Contains(t, string(responses[1].Data), `"offsets":[]`)
}

func TestServer_MatchBadRequirement(t *testing.T) {
	responses := runServer(t, `{"type":"match","payload":{"haystack":"a","needle":"a","require":"quick"}}`+"\n")
	require.Len(t, responses, 2)
	assert.False(t, responses[1].Success)
	assert.Equal(t, "match", responses[1].Type)
	assert.Contains(t, responses[1].Error, "unknown characteristic")
}

func TestServer_MatchBatch(t *testing.T) {
	// Run repeatedly: the batch request and EOF arrive together.
	for i := range 10 {
		responses := runServer(t, `{"type":"match_batch","payload":{"items":[{"source":"s1","haystack":"aaaa","needle":"aa"},{"source":"s2","haystack":"xyz","needle":"q"}]}}`+"\n")
		require.Len(t, responses, 2, "iteration %d", i)

		resp := responses[1]
		assert.True(t, resp.Success, "iteration %d", i)
		assert.Equal(t, "match_batch", resp.Type, "iteration %d", i)

		var batch search.BatchResult
		require.NoError(t, json.Unmarshal(resp.Data, &batch))
		require.Len(t, batch.Results, 2)
		assert.Equal(t, 3, batch.Total)
	}
}

func TestServer_List(t *testing.T) {
	responses := runServer(t, `{"type":"list","payload":{}}`+"\n")
	require.Len(t, responses, 2)

	var data ListData
	require.NoError(t, json.Unmarshal(responses[1].Data, &data))
	assert.Equal(t, "brute", data.Default)
	require.NotEmpty(t, data.Matchers)
	assert.Equal(t, "brute", data.Matchers[0].Name)
	assert.True(t, data.Matchers[0].Characteristics.Stable)
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	srv := NewServer(newCore(t), pr, out)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_CloseCommand(t *testing.T) {
	responses := runServer(t, `{"type":"close","payload":{}}`+"\n"+`{"type":"list","payload":{}}`+"\n")
	require.Len(t, responses, 1)
	assert.Equal(t, "ready", responses[0].Type)
}

func TestServer_UnknownCommand(t *testing.T) {
	responses := runServer(t, `{"type":"invalid","payload":{}}`+"\n")
	require.Len(t, responses, 2)
	assert.False(t, responses[1].Success)
	assert.Contains(t, responses[1].Error, "unknown request type")
}

func TestServer_MalformedJSON(t *testing.T) {
	responses := runServer(t, `{invalid json}`+"\n")
	require.GreaterOrEqual(t, len(responses), 2)
	assert.False(t, responses[1].Success)
	assert.Equal(t, "decode", responses[1].Type)
}

func TestServer_StopsReadingAfterClose(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	out := &bytes.Buffer{}
	srv := NewServer(newCore(t), pr, out)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	_, err := pw.Write([]byte(`{"type":"close"}` + "\n"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not return after close")
	}

	// The reader may still be blocked in one Decode; it takes at most one
	// more line and exits without reading further.
	var mu sync.Mutex
	consumed := 0
	go func() {
		for i := 0; i < 3; i++ {
			if _, err := pw.Write([]byte(`{"type":"list"}` + "\n")); err != nil {
				return
			}
			mu.Lock()
			consumed++
			mu.Unlock()
		}
	}()

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, consumed, 1)
}
