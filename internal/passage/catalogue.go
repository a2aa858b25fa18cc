// Package passage loads the study's passage catalogue from a JSONL file.
// Passage ids are 1-indexed line numbers, matching how the study tooling
// that produced the file refers to them.
package passage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloze-study-service/internal/methods"
)

// GapTuple is one precomputed gap stored as a [word, start, length] array
// in the JSONL file.
type GapTuple struct {
	Word     string
	StartIdx int
	Length   int
}

func (g *GapTuple) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("gap tuple has %d elements, want 3", len(raw))
	}
	if err := json.Unmarshal(raw[0], &g.Word); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &g.StartIdx); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &g.Length)
}

// Variant is one method's precomputed gapped rendition of a passage.
type Variant struct {
	Text string     `json:"text"`
	Gaps []GapTuple `json:"gaps"`
}

type Passage struct {
	Volume            string  `json:"volume"`
	Page              string  `json:"page"`
	Summary           string  `json:"summary"`
	Text              string  `json:"text"`
	Contextuality     Variant `json:"contextuality"`
	ContextualityPlus Variant `json:"contextuality_plus"`
	Keyword           Variant `json:"keyword"`
}

// Variant returns the precomputed rendition for a canonical method.
func (p *Passage) Variant(method string) (Variant, bool) {
	switch methods.ConvertToStandard(method) {
	case methods.Contextuality:
		return p.Contextuality, true
	case methods.ContextualityPlus:
		return p.ContextualityPlus, true
	case methods.Keyword:
		return p.Keyword, true
	}
	return Variant{}, false
}

// Catalogue holds every passage, loaded once at startup.
type Catalogue struct {
	passages []Passage
}

func Load(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var passages []Passage
	scanner := bufio.NewScanner(f)
	// Passage texts run well past the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var p Passage
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, fmt.Errorf("passage line %d: %w", line, err)
		}
		passages = append(passages, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Catalogue{passages: passages}, nil
}

// Size returns the number of passages in the catalogue.
func (c *Catalogue) Size() int {
	return len(c.passages)
}

// Get returns the passage with the given 1-indexed id.
func (c *Catalogue) Get(id int) (*Passage, bool) {
	if id < 1 || id > len(c.passages) {
		return nil, false
	}
	return &c.passages[id-1], true
}
