// Package mistake defines the critique records produced for a document and
// the analysis envelope they arrive in.
package mistake

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Category classifies a mistake. Values are the display strings emitted by
// the producer.
type Category string

const (
	CategorySpelling   Category = "Spelling"
	CategoryGrammar    Category = "Grammar"
	CategoryCliche     Category = "Cliché"
	CategoryFormatting Category = "Formatting"
	CategoryContent    Category = "Content"
	CategoryWeakVerb   Category = "Weak Verb"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategorySpelling,
	CategoryGrammar,
	CategoryCliche,
	CategoryFormatting,
	CategoryContent,
	CategoryWeakVerb,
}

// categoryAliases maps alternate spellings to the canonical category.
var categoryAliases = map[string]Category{
	"spelling":   CategorySpelling,
	"grammar":    CategoryGrammar,
	"cliché":     CategoryCliche,
	"cliche":     CategoryCliche,
	"formatting": CategoryFormatting,
	"content":    CategoryContent,
	"weak verb":  CategoryWeakVerb,
	"weakverb":   CategoryWeakVerb,
	"weak_verb":  CategoryWeakVerb,
}

// ParseCategory normalises s to a known category. Unknown values are returned
// unchanged with ok=false so callers can still render them as opaque text.
func ParseCategory(s string) (Category, bool) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, true
	}
	return Category(s), false
}

// IsKnown reports whether c is one of the six enumerated categories.
func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Record is a single critique of one substring of the document.
type Record struct {
	Original    string   `json:"original"`
	Correction  string   `json:"correction"`
	Explanation string   `json:"explanation"`
	Category    Category `json:"type"`
}

// UnmarshalJSON accepts both "type" and "category" for the category field and
// normalises known spellings.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Original    string `json:"original"`
		Correction  string `json:"correction"`
		Explanation string `json:"explanation"`
		Type        string `json:"type"`
		Category    string `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cat := raw.Type
	if cat == "" {
		cat = raw.Category
	}
	parsed, _ := ParseCategory(cat)

	*r = Record{
		Original:    raw.Original,
		Correction:  raw.Correction,
		Explanation: raw.Explanation,
		Category:    parsed,
	}
	return nil
}

// Validate checks that every required field is present. Unknown categories
// are not an error; they pass through as opaque text.
func (r Record) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("original", r.Original, required),
		criterio.Run("correction", r.Correction, required),
		criterio.Run("explanation", r.Explanation, required),
		criterio.Run("type", string(r.Category), required),
	)
}

// Valid is shorthand for Validate() == nil.
func (r Record) Valid() bool {
	return r.Validate() == nil
}

func required(s string) error {
	if s == "" {
		return errors.New("is required")
	}
	return nil
}

// Analysis is the full producer response for one document.
type Analysis struct {
	Score     int      `json:"score"`
	Grade     string   `json:"grade"`
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Mistakes  []Record `json:"mistakes"`
}

// Decode parses producer output. It accepts a full Analysis object or a bare
// array of records.
func Decode(data []byte) (*Analysis, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.New("empty input")
	}

	if strings.HasPrefix(trimmed, "[") {
		var records []Record
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("decode mistakes: %w", err)
		}
		return &Analysis{Mistakes: records}, nil
	}

	var a Analysis
	if err := json.Unmarshal([]byte(trimmed), &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

// CountByCategory tallies records per category. Unknown categories are
// counted under their own value.
func CountByCategory(records []Record) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}
