package deck

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Source is the prompt and answer text supplied once at process start.
// The JSON form matches the classic deck.json layout of black and white cards.
type Source struct {
	Prompts []string `json:"black" hcl:"prompts,optional"`
	Answers []string `json:"white" hcl:"answers,optional"`
}

//go:embed default.json
var defaultDeck []byte

// Default returns the deck compiled into the binary.
func Default() (*Source, error) {
	return parseJSON(defaultDeck)
}

// Load reads a deck from disk. Files ending in .hcl are decoded as HCL with
// top-level prompts and answers attributes; everything else is read as JSON.
func Load(filename string) (*Source, error) {
	if strings.EqualFold(filepath.Ext(filename), ".hcl") {
		return loadHCL(filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (*Source, error) {
	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("failed to parse deck JSON: %w", err)
	}
	return src.clean(), nil
}

func loadHCL(filename string) (*Source, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL deck: %s", diags.Error())
	}

	var src Source
	diags = gohcl.DecodeBody(file.Body, nil, &src)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL deck: %s", diags.Error())
	}
	return src.clean(), nil
}

// clean drops blank entries. Duplicates are kept; they are part of the deck.
func (s Source) clean() *Source {
	out := &Source{
		Prompts: make([]string, 0, len(s.Prompts)),
		Answers: make([]string, 0, len(s.Answers)),
	}
	for _, p := range s.Prompts {
		if p = strings.TrimSpace(p); p != "" {
			out.Prompts = append(out.Prompts, p)
		}
	}
	for _, a := range s.Answers {
		if a = strings.TrimSpace(a); a != "" {
			out.Answers = append(out.Answers, a)
		}
	}
	return out
}

// Stats summarises a deck for the deck check command.
type Stats struct {
	Prompts         int
	Answers         int
	BlanksHistogram map[int]int
}

// Stats counts prompts by the number of occurrences of marker.
func (s *Source) Stats(marker string) Stats {
	st := Stats{
		Prompts:         len(s.Prompts),
		Answers:         len(s.Answers),
		BlanksHistogram: make(map[int]int),
	}
	for _, p := range s.Prompts {
		st.BlanksHistogram[strings.Count(p, marker)]++
	}
	return st
}
