package types

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SourcePoint is line:column position (1-based).
type SourcePoint struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Occurrence is one match of a needle, located both by byte offset and by
// line/column within the haystack.
type Occurrence struct {
	Offset OffsetSpan  `json:"offset"`
	Start  SourcePoint `json:"start"`
	End    SourcePoint `json:"end"`
}

// Occurrences expands match offsets into located spans. Offsets must be
// ascending, which every matcher guarantees; positions are computed in a
// single pass over the haystack.
func Occurrences(haystack []byte, offsets []int, needleLen int) []Occurrence {
	out := make([]Occurrence, 0, len(offsets))
	cursor := newLineCursor(haystack)
	for _, off := range offsets {
		start := cursor.advance(off)
		// End is inclusive of the last matched byte for display purposes.
		endOff := off + needleLen
		if needleLen > 0 {
			endOff--
		}
		end := newLineCursorAt(haystack, cursor).advance(endOff)
		out = append(out, Occurrence{
			Offset: OffsetSpan{Start: off, End: off + needleLen},
			Start:  start,
			End:    end,
		})
	}
	return out
}

// ComputeLineColumn computes line and column numbers from a byte offset in content.
// Lines and columns are 1-indexed.
func ComputeLineColumn(content []byte, byteOffset int) (line, column int) {
	p := newLineCursor(content).advance(byteOffset)
	return p.Line, p.Column
}

type lineCursor struct {
	content []byte
	pos     int
	point   SourcePoint
}

func newLineCursor(content []byte) *lineCursor {
	return &lineCursor{content: content, point: SourcePoint{Line: 1, Column: 1}}
}

func newLineCursorAt(content []byte, from *lineCursor) *lineCursor {
	return &lineCursor{content: content, pos: from.pos, point: from.point}
}

// advance moves forward to offset and returns its position. Offsets behind
// the cursor return the current position.
func (c *lineCursor) advance(offset int) SourcePoint {
	for c.pos < offset && c.pos < len(c.content) {
		if c.content[c.pos] == '\n' {
			c.point.Line++
			c.point.Column = 1
		} else {
			c.point.Column++
		}
		c.pos++
	}
	return c.point
}
