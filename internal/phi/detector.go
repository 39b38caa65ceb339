// Package phi screens extracted text for patient-identifiable information
// before it crosses the trust boundary. Detection is rule-based and
// advisory only: warnings annotate the response, they never block or
// redact the text itself.
package phi

import "regexp"

// WarningType identifies the class of identifiable information found.
type WarningType string

const (
	TypeNHSNumber   WarningType = "NHS_NUMBER"
	TypeName        WarningType = "NAME"
	TypeDateOfBirth WarningType = "DATE_OF_BIRTH"
	TypeAddress     WarningType = "ADDRESS"
	TypePhoneNumber WarningType = "PHONE_NUMBER"
	TypeEmail       WarningType = "EMAIL"
)

// Severity grades how strongly a match identifies a patient.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning reports one category of detected PHI with the verbatim
// substrings that matched, deduplicated by exact equality.
type Warning struct {
	Type     WarningType `json:"type"`
	Severity Severity    `json:"severity"`
	Matches  []string    `json:"matches"`
}

var (
	// NHS numbers: 10 digits in 3-3-4 grouping, optionally spaced.
	nhsNumberRE = regexp.MustCompile(`\b\d{3}\s?\d{3}\s?\d{4}\b`)

	// Honorific followed by one or more capitalised words.
	nameRE = regexp.MustCompile(`\b(Mr|Mrs|Ms|Miss|Dr|Professor|Prof)\s+[A-Z][a-z]+(\s+[A-Z][a-z]+)*\b`)

	dobREs = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}[/\-]\d{1,2}[/\-]\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b(DOB|Date of Birth):\s*[\w\s/\-]+`),
	}

	addressREs = []*regexp.Regexp{
		// UK postcode.
		regexp.MustCompile(`(?i)\b[A-Z]{1,2}\d{1,2}\s?\d[A-Z]{2}\b`),
		regexp.MustCompile(`(?i)\bAddress:\s*[^\n]+`),
	}

	phoneREs = []*regexp.Regexp{
		regexp.MustCompile(`\b0\d{10}\b`),
		regexp.MustCompile(`\b0\d{3}\s?\d{3}\s?\d{4}\b`),
		regexp.MustCompile(`\b\+44\s?\d{10}\b`),
	}

	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// Detect scans text and returns warnings in a fixed category order:
// NHS_NUMBER, NAME, DATE_OF_BIRTH, ADDRESS, PHONE_NUMBER, EMAIL.
// Categories with no matches are omitted. Detect is pure and never fails.
func Detect(text string) []Warning {
	var warnings []Warning

	if matches := uniqueMatches(text, nhsNumberRE); len(matches) > 0 {
		warnings = append(warnings, Warning{Type: TypeNHSNumber, Severity: SeverityHigh, Matches: matches})
	}
	if matches := uniqueMatches(text, nameRE); len(matches) > 0 {
		warnings = append(warnings, Warning{Type: TypeName, Severity: SeverityHigh, Matches: matches})
	}
	if matches := uniqueMatchesAll(text, dobREs); len(matches) > 0 {
		warnings = append(warnings, Warning{Type: TypeDateOfBirth, Severity: SeverityHigh, Matches: matches})
	}
	if matches := uniqueMatchesAll(text, addressREs); len(matches) > 0 {
		warnings = append(warnings, Warning{Type: TypeAddress, Severity: SeverityMedium, Matches: matches})
	}
	if matches := uniqueMatchesAll(text, phoneREs); len(matches) > 0 {
		warnings = append(warnings, Warning{Type: TypePhoneNumber, Severity: SeverityMedium, Matches: matches})
	}
	if matches := uniqueMatches(text, emailRE); len(matches) > 0 {
		warnings = append(warnings, Warning{Type: TypeEmail, Severity: SeverityMedium, Matches: matches})
	}

	return warnings
}

// Contains reports whether any PHI category matches the text.
func Contains(text string) bool {
	return len(Detect(text)) > 0
}

// Types returns just the warning types, in detection order. Used by
// audit logging and structured log fields.
func Types(warnings []Warning) []string {
	types := make([]string, 0, len(warnings))
	for _, w := range warnings {
		types = append(types, string(w.Type))
	}
	return types
}

func uniqueMatches(text string, re *regexp.Regexp) []string {
	return dedupe(re.FindAllString(text, -1))
}

func uniqueMatchesAll(text string, res []*regexp.Regexp) []string {
	var all []string
	for _, re := range res {
		all = append(all, re.FindAllString(text, -1)...)
	}
	return dedupe(all)
}

// dedupe preserves first-seen order; matching is exact, not case-folded.
func dedupe(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
