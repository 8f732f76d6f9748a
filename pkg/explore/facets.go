package explore

import "sort"

// facetValue is a single selectable matcher name in the filter pane.
type facetValue struct {
	Value    string
	Count    int
	Selected bool
}

// buildFacets counts searches per matcher, most used first.
func buildFacets(rows []*historyRow) []*facetValue {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.Matcher]++
	}

	values := make([]*facetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, &facetValue{Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
	return values
}

// filterRows returns the rows whose matcher is selected. With nothing
// selected every row passes.
func filterRows(rows []*historyRow, facets []*facetValue) []*historyRow {
	selected := make(map[string]bool)
	for _, f := range facets {
		if f.Selected {
			selected[f.Value] = true
		}
	}
	if len(selected) == 0 {
		return rows
	}

	out := make([]*historyRow, 0, len(rows))
	for _, r := range rows {
		if selected[r.Matcher] {
			out = append(out, r)
		}
	}
	return out
}
