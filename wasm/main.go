//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("MatchersNewSearcher", js.FuncOf(newSearcher))
	js.Global().Set("MatchersSearch", js.FuncOf(searchOne))
	js.Global().Set("MatchersSearchBatch", js.FuncOf(searchBatch))
	js.Global().Set("MatchersHistory", js.FuncOf(history))
	js.Global().Set("MatchersCloseSearcher", js.FuncOf(closeSearcher))
	js.Global().Set("MatchersList", js.FuncOf(listMatchers))

	// Keep WASM running
	<-make(chan struct{})
}
