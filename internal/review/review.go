package review

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion imports

// #region types

// Assessment is the overall quality band for a reviewed report.
type Assessment string

const (
	Excellent Assessment = "excellent"
	Good      Assessment = "good"
	Fair      Assessment = "fair"
	Poor      Assessment = "poor"
)

// Result is the output of reviewing a report. Derived purely from the
// content string; recomputed on every call, no identity of its own.
type Result struct {
	QualityScore      int
	Feedback          []string
	Suggestions       []string
	OverallAssessment Assessment
}

// FactualityResult is a placeholder factuality check output.
type FactualityResult struct {
	FactualityScore int
	PotentialIssues []string
	ConfidenceLevel string
}

// #endregion types

// #region markers

// EvidenceMarker introduces the bullet list of cited source material in a
// generated report. Its presence counts toward the content score.
const EvidenceMarker = "Key points from the source material"

// boilerplatePhrase is the repeated-filler phrase the content check counts.
const boilerplatePhrase = "This is about"

var titlePattern = regexp.MustCompile(`(?m)^# .+Research Report`)

var requiredSections = []string{"Introduction", "Main Findings", "Conclusion"}

// placeholderPatterns are phrasings characteristic of the canned research
// templates; a report matching most of them is mostly template, not analysis.
var placeholderPatterns = []string{
	"Research summary about",
	"spans multiple aspects and application scenarios",
	"may see further innovation and development",
}

// #endregion markers

// #region review

// Review scores a report's structure, content, and language against fixed
// heuristics. Each category contributes a bounded non-negative amount; the
// total is always in [0,100]. Pure function: no randomness, no I/O. The
// topic is accepted for context only and does not affect the score.
func Review(content, topic string) Result {
	_ = topic
	var r Result

	// Structure: title plus every required section, or nothing.
	structureIssues := checkStructure(content)
	if len(structureIssues) == 0 {
		r.QualityScore += 20
	} else {
		r.Feedback = append(r.Feedback, structureIssues...)
	}

	// Content: length band, evidence citations, repeated boilerplate.
	chars := len([]rune(content))
	switch {
	case chars < 200:
		r.Feedback = append(r.Feedback, "Content too short")
	case chars > 2000:
		r.Feedback = append(r.Feedback, "Content too long")
	default:
		r.QualityScore += 20
	}

	if strings.Contains(content, EvidenceMarker) {
		r.QualityScore += 20
	} else {
		r.Suggestions = append(r.Suggestions, "Cite concrete source material to support the findings")
	}

	if strings.Count(content, boilerplatePhrase) > 1 {
		r.Feedback = append(r.Feedback, "Repetitive phrasing detected")
	} else {
		r.QualityScore += 20
	}

	// Language: too many template phrasings zeroes the category.
	matched := 0
	for _, p := range placeholderPatterns {
		if strings.Contains(content, p) {
			matched++
		}
	}
	if matched > 2 {
		r.Feedback = append(r.Feedback, "Too much templated language; add original analysis")
	} else {
		r.QualityScore += 20
	}

	r.OverallAssessment = assess(r.QualityScore)
	return r
}

// #endregion review

// #region structure

// checkStructure returns one issue per missing structural element, in a
// fixed order: title first, then the required sections.
func checkStructure(content string) []string {
	var issues []string
	if !titlePattern.MatchString(content) {
		issues = append(issues, "Missing research report title")
	}
	for _, section := range requiredSections {
		if !strings.Contains(content, section) {
			issues = append(issues, "Missing '"+section+"' section")
		}
	}
	return issues
}

// #endregion structure

// #region assess

// assess maps a quality score onto its band. Monotonic step function with
// thresholds 80, 60, 40.
func assess(score int) Assessment {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Fair
	default:
		return Poor
	}
}

// #endregion assess

// #region factuality

// ReviewFactuality is a stubbed factuality check; a real implementation
// would cross-reference claims against stored sources.
func ReviewFactuality(content string) FactualityResult {
	_ = content
	return FactualityResult{
		FactualityScore: 75,
		PotentialIssues: []string{"Some claims lack concrete supporting data"},
		ConfidenceLevel: "medium",
	}
}

// #endregion factuality
