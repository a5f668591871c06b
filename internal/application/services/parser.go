package services

import (
	"regexp"
	"strings"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

const (
	bidConfidence      = 0.8
	fallbackConfidence = 0.6

	statusUnparsed          = "Unable to parse status"
	issuesUnparsed          = "Unable to parse issues"
	recommendationsUnparsed = "Unable to parse recommendations"
)

var (
	statusPattern          = regexp.MustCompile(`(?m)^\s*STATUS:\s*(.+)$`)
	issuesPattern          = regexp.MustCompile(`(?ms)^\s*ISSUES:\s*(.+?)(?:^\s*RECOMMENDATIONS:|\z)`)
	recommendationsPattern = regexp.MustCompile(`(?ms)^\s*RECOMMENDATIONS:\s*(.+?)\z`)
)

// ParseBidDecision interprets a completion response as a bid decision.
// NO_BID is checked before BID since the former contains the latter as
// a substring.
func ParseBidDecision(response string) *entities.DecisionResult {
	decision := entities.DecisionNoBid
	if !strings.Contains(response, entities.DecisionNoBid) && strings.Contains(response, entities.DecisionBid) {
		decision = entities.DecisionBid
	}
	return &entities.DecisionResult{
		Decision:   decision,
		Confidence: bidConfidence,
		Reasoning:  strings.TrimSpace(response),
	}
}

// FallbackBidDecision produces the deterministic rule-based decision
// used when the completion provider is unavailable.
func FallbackBidDecision(region string) *entities.DecisionResult {
	decision := entities.DecisionNoBid
	if region == "North America" {
		decision = entities.DecisionBid
	}
	return &entities.DecisionResult{
		Decision:   decision,
		Confidence: fallbackConfidence,
		Reasoning:  "Rule-based decision: region is " + region,
	}
}

// ParseComplianceReview extracts the STATUS, ISSUES and RECOMMENDATIONS
// fields from a completion response and derives a compliance score from
// the pass/fail glyph counts. A field that cannot be parsed is replaced
// with a sentinel string rather than failing the review.
func ParseComplianceReview(response string) *entities.ComplianceResult {
	return &entities.ComplianceResult{
		Status:          parseField(statusPattern, response, statusUnparsed),
		Issues:          parseField(issuesPattern, response, issuesUnparsed),
		Recommendations: parseField(recommendationsPattern, response, recommendationsUnparsed),
		ComplianceScore: complianceScore(response),
	}
}

func parseField(pattern *regexp.Regexp, response, sentinel string) string {
	m := pattern.FindStringSubmatch(response)
	if m == nil {
		return sentinel
	}
	value := strings.TrimSpace(m[1])
	if value == "" {
		return sentinel
	}
	return value
}

// complianceScore counts checklist glyphs: pass/(pass+fail)*100, or 0
// when the response contains no glyphs at all.
func complianceScore(response string) float64 {
	pass := strings.Count(response, "✓")
	fail := strings.Count(response, "✗")
	total := pass + fail
	if total == 0 {
		return 0
	}
	score := float64(pass) / float64(total) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
