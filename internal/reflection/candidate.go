package reflection

import (
	"encoding/json"
	"strings"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

// candidate is the raw model output before validation. Array fields
// stay as RawMessage so a wrongly-typed field is reported as a schema
// violation rather than a parse failure of the whole document.
type candidate struct {
	Title            string          `json:"title"`
	What             string          `json:"what"`
	SoWhat           string          `json:"soWhat"`
	NowWhat          string          `json:"nowWhat"`
	Tags             json.RawMessage `json:"tags"`
	SuggestedDomains json.RawMessage `json:"suggestedDomains"`
	Confidence       *float64        `json:"confidence"`
	ExtractedText    string          `json:"extractedText"`
}

// candidateDefaults controls how an incomplete candidate is repaired.
// The text-synthesis path sets strict and rejects missing narrative
// fields; the vision and voice paths fill them from the source
// material instead.
type candidateDefaults struct {
	strict bool
	title  string
	what   string
}

func parseCandidate(raw string) (*candidate, error) {
	var c candidate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, pipeline.Wrap(pipeline.KindUpstreamFormat, err, "reflection: model response is not valid JSON")
	}
	return &c, nil
}

// resolve validates the candidate and turns it into a Record.
// Validation and defaulting happen here and nowhere else.
func (c *candidate) resolve(d candidateDefaults) (*Record, error) {
	if d.strict {
		for _, f := range []struct{ name, value string }{
			{"title", c.Title},
			{"what", c.What},
			{"soWhat", c.SoWhat},
			{"nowWhat", c.NowWhat},
		} {
			if strings.TrimSpace(f.value) == "" {
				return nil, pipeline.E(pipeline.KindSchemaValidation, "reflection: model response missing required field %q", f.name)
			}
		}
	}

	tags, err := stringArray(c.Tags, "tags")
	if err != nil {
		return nil, err
	}
	domains, err := intArray(c.SuggestedDomains, "suggestedDomains")
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Title:            c.Title,
		What:             c.What,
		SoWhat:           c.SoWhat,
		NowWhat:          c.NowWhat,
		Tags:             tags,
		SuggestedDomains: normalizeDomains(domains),
	}
	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = d.title
	}
	if strings.TrimSpace(rec.What) == "" {
		rec.What = d.what
	}
	if c.Confidence != nil {
		rec.Confidence = clamp01(*c.Confidence)
	}
	return rec, nil
}

func stringArray(raw json.RawMessage, field string) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, pipeline.E(pipeline.KindSchemaValidation, "reflection: field %q must be an array of strings", field)
	}
	return out, nil
}

func intArray(raw json.RawMessage, field string) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []int{}, nil
	}
	var out []int
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, pipeline.E(pipeline.KindSchemaValidation, "reflection: field %q must be an array of integers", field)
	}
	return out, nil
}

// normalizeDomains keeps GMC domain numbers within 1..4 and drops
// duplicates, preserving the model's ordering.
func normalizeDomains(in []int) []int {
	out := make([]int, 0, len(in))
	seen := make(map[int]bool, len(in))
	for _, d := range in {
		if d < 1 || d > 4 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
