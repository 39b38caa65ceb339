package reflection

import "strings"

// Clinical vocabulary; presence of these terms in the source text
// suggests genuine practice content rather than a generic note.
var medicalKeywords = []string{
	"patient", "doctor", "nurse", "clinical", "diagnosis",
	"treatment", "ward", "hospital", "nhs", "care", "safety",
	"communication", "teamwork", "learning", "teaching",
}

const keywordBonusCap = 0.1

// scoreConfidence assigns a deterministic quality score to a
// synthesized record based on the richness of the source text and the
// completeness of the structured output. The result is clamped to
// [0, 1].
func scoreConfidence(sourceText string, rec *Record) float64 {
	score := 0.5

	switch {
	case len(sourceText) > 500:
		score += 0.2
	case len(sourceText) > 200:
		score += 0.1
	}

	if len(rec.What) > 100 {
		score += 0.1
	}
	if len(rec.SoWhat) > 100 {
		score += 0.1
	}
	if len(rec.NowWhat) > 50 {
		score += 0.05
	}
	if len(rec.Tags) >= 3 {
		score += 0.05
	}
	if len(rec.SuggestedDomains) >= 1 {
		score += 0.05
	}

	lower := strings.ToLower(sourceText)
	bonus := 0.0
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			bonus += 0.02
		}
	}
	if bonus > keywordBonusCap {
		bonus = keywordBonusCap
	}
	score += bonus

	return clamp01(score)
}
