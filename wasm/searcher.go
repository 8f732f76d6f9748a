//go:build wasm

package main

import (
	"context"
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/matchers/pkg/catalog"
	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/serve"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
)

var (
	searchers   = make(map[int]*search.Core)
	searchersMu sync.RWMutex
	nextID      int
)

// searcherOptions is the optional JSON argument to MatchersNewSearcher.
type searcherOptions struct {
	History bool `json:"history"` // record searches in memory
}

// newSearcher creates a searcher over the builtin catalog.
// JS: MatchersNewSearcher([optionsJSON]) -> {handle} or {error}
func newSearcher(this js.Value, args []js.Value) interface{} {
	var opts searcherOptions
	if len(args) > 0 && args[0].Type() == js.TypeString && args[0].String() != "" {
		if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
			return map[string]interface{}{"error": "failed to parse options JSON: " + err.Error()}
		}
	}

	cfg := search.Config{}
	if opts.History {
		s, err := store.New(store.Config{Path: store.MemoryPath})
		if err != nil {
			return map[string]interface{}{"error": "failed to create store: " + err.Error()}
		}
		cfg.Store = s
	}

	core, err := search.NewCore(cfg)
	if err != nil {
		return map[string]interface{}{"error": "failed to create searcher: " + err.Error()}
	}

	searchersMu.Lock()
	id := nextID
	nextID++
	searchers[id] = core
	searchersMu.Unlock()

	return map[string]interface{}{"handle": id}
}

func lookup(handle int) (*search.Core, bool) {
	searchersMu.RLock()
	defer searchersMu.RUnlock()
	core, ok := searchers[handle]
	return core, ok
}

// searchOne runs one search.
// JS: MatchersSearch(handle, payloadJSON) -> JSON result or {error}
func searchOne(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and payloadJSON arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid searcher handle"}
	}

	var p serve.MatchPayload
	if err := json.Unmarshal([]byte(args[1].String()), &p); err != nil {
		return map[string]interface{}{"error": "failed to parse payload JSON: " + err.Error()}
	}

	result, err := core.Search(context.Background(), p.Request())
	if err != nil {
		return map[string]interface{}{"error": "search failed: " + err.Error()}
	}

	return marshal(result)
}

// searchBatch runs several searches.
// JS: MatchersSearchBatch(handle, itemsJSON) -> JSON batch result or {error}
func searchBatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "handle and itemsJSON arguments required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid searcher handle"}
	}

	var items []serve.MatchPayload
	if err := json.Unmarshal([]byte(args[1].String()), &items); err != nil {
		return map[string]interface{}{"error": "failed to parse items JSON: " + err.Error()}
	}

	reqs := make([]search.Request, 0, len(items))
	for _, item := range items {
		reqs = append(reqs, item.Request())
	}

	batch, err := core.SearchBatch(context.Background(), reqs)
	if err != nil {
		return map[string]interface{}{"error": "batch search failed: " + err.Error()}
	}

	return marshal(batch)
}

// history returns the searches recorded by a searcher created with history
// enabled.
// JS: MatchersHistory(handle) -> JSON records or {error}
func history(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	core, ok := lookup(args[0].Int())
	if !ok {
		return map[string]interface{}{"error": "invalid searcher handle"}
	}

	records, err := core.History()
	if err != nil {
		return map[string]interface{}{"error": "failed to read history: " + err.Error()}
	}
	return marshal(records)
}

// closeSearcher releases a searcher.
// JS: MatchersCloseSearcher(handle)
func closeSearcher(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	searchersMu.Lock()
	core, ok := searchers[handle]
	if ok {
		delete(searchers, handle)
	}
	searchersMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid searcher handle"}
	}

	if err := core.Close(); err != nil {
		return map[string]interface{}{"error": "close failed: " + err.Error()}
	}
	return nil
}

// listMatchers returns the builtin registry's descriptors in order.
// JS: MatchersList() -> JSON {default, matchers} or {error}
func listMatchers(this js.Value, args []js.Value) interface{} {
	reg, err := catalog.BuildBuiltin(catalog.BuildOptions{})
	if err != nil {
		return map[string]interface{}{"error": "failed to build builtin registry: " + err.Error()}
	}

	data := serve.ListData{
		Default:  reg.Default().Name(),
		Matchers: make([]types.Descriptor, 0, reg.Len()),
	}
	for _, e := range reg.All() {
		data.Matchers = append(data.Matchers, e.Descriptor)
	}
	return marshal(data)
}

func marshal(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal result: " + err.Error()}
	}
	return string(b)
}
