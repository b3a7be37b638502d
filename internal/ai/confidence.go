package ai

import "regexp"

// Structural markers that suggest the explanation kept the requested
// section layout.
var (
	boldMarkerRe      = regexp.MustCompile(`\*\*[^*]+\*\*`)
	numberedHeadingRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	markdownHeaderRe  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// ConfidenceScore is a deterministic 0-100 heuristic estimate of explanation
// quality. It never calls the model.
func ConfidenceScore(explanation, originalText string) int {
	score := 50

	if len(explanation) > 500 {
		score += 15
	}
	if len(explanation) > 1000 {
		score += 10
	}
	if hasStructure(explanation) {
		score += 15
	}
	if len(originalText) > 0 && float64(len(explanation))/float64(len(originalText)) > 0.1 {
		score += 10
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func hasStructure(explanation string) bool {
	return boldMarkerRe.MatchString(explanation) ||
		numberedHeadingRe.MatchString(explanation) ||
		markdownHeaderRe.MatchString(explanation)
}
