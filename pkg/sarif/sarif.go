package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/matchers/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "matchers"
)

// ToolVersion is reported in the driver block. The CLI overrides it at link time.
var ToolVersion = "dev"

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one matcher that produced results.
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	Properties       *RuleProperties  `json:"properties,omitempty"`
}

// RuleProperties carries the matcher's characteristics.
type RuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single occurrence
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range. EndColumn is exclusive.
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	ByteOffset  int      `json:"byteOffset"`
	ByteLength  int      `json:"byteLength"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the matched text
type Snippet struct {
	Text string `json:"text"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   []Rule{},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddMatcher adds a matcher to the driver's rules. Adding the same name
// twice is a no-op.
func (r *Report) AddMatcher(desc types.Descriptor) {
	driver := &r.Runs[0].Tool.Driver
	for _, existing := range driver.Rules {
		if existing.ID == desc.Name {
			return
		}
	}

	rule := Rule{
		ID:   desc.Name,
		Name: desc.Name,
		ShortDescription: ShortDescription{
			Text: desc.Description,
		},
	}
	if tags := characteristicTags(desc.Characteristics); len(tags) > 0 {
		rule.Properties = &RuleProperties{Tags: tags}
	}

	driver.Rules = append(driver.Rules, rule)
}

// AddResult adds one occurrence of needle, found by matcherName in the
// haystack at filePath.
func (r *Report) AddResult(occ types.Occurrence, matcherName, needle, filePath string) {
	uri := formatFileURI(filePath)

	region := Region{
		StartLine:   occ.Start.Line,
		StartColumn: occ.Start.Column,
		EndLine:     occ.End.Line,
		EndColumn:   occ.End.Column + 1,
		ByteOffset:  occ.Offset.Start,
		ByteLength:  occ.Offset.End - occ.Offset.Start,
	}
	if needle != "" {
		region.Snippet = &Snippet{Text: needle}
	}

	result := Result{
		RuleID: matcherName,
		Level:  "note",
		Message: Message{
			Text: fmt.Sprintf("Found %q at byte offset %d", needle, occ.Offset.Start),
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: uri,
					},
					Region: region,
				},
			},
		},
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		// Normalize path separators for URI format
		path = filepath.ToSlash(path)
		// Ensure path starts with /
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	// Relative paths stay as-is
	return filepath.ToSlash(path)
}

func characteristicTags(c types.Characteristics) []string {
	var tags []string
	if c.Fast {
		tags = append(tags, "fast")
	}
	if c.Stable {
		tags = append(tags, "stable")
	}
	if c.Experimental {
		tags = append(tags, "experimental")
	}
	return tags
}
