package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/rfp-response-pipeline/internal/application/services"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

func TestParseBidDecision(t *testing.T) {
	t.Run("recognizes BID", func(t *testing.T) {
		result := services.ParseBidDecision("BID\nThe project matches our core capabilities.")

		assert.Equal(t, entities.DecisionBid, result.Decision)
		assert.Equal(t, 0.8, result.Confidence)
		assert.Contains(t, result.Reasoning, "core capabilities")
	})

	t.Run("NO_BID wins over its BID substring", func(t *testing.T) {
		result := services.ParseBidDecision("NO_BID: outside our service regions")

		assert.Equal(t, entities.DecisionNoBid, result.Decision)
		assert.Equal(t, 0.8, result.Confidence)
	})

	t.Run("defaults to NO_BID when neither token appears", func(t *testing.T) {
		result := services.ParseBidDecision("I cannot evaluate this document.")

		assert.Equal(t, entities.DecisionNoBid, result.Decision)
	})
}

func TestFallbackBidDecision(t *testing.T) {
	t.Run("North America bids", func(t *testing.T) {
		result := services.FallbackBidDecision("North America")

		assert.Equal(t, entities.DecisionBid, result.Decision)
		assert.Equal(t, 0.6, result.Confidence)
		assert.Contains(t, result.Reasoning, "Rule-based decision")
		assert.Contains(t, result.Reasoning, "North America")
	})

	t.Run("other regions do not bid", func(t *testing.T) {
		result := services.FallbackBidDecision("Asia")

		assert.Equal(t, entities.DecisionNoBid, result.Decision)
		assert.Equal(t, 0.6, result.Confidence)
	})
}

func TestParseComplianceReview(t *testing.T) {
	t.Run("parses all three fields and counts glyphs", func(t *testing.T) {
		response := "STATUS: PASS\n" +
			"ISSUES: None\n" +
			"RECOMMENDATIONS: Add a risk register reference.\n" +
			"✓ HIPAA\n✓ Professional standards\n✓ Certifications\n✗ Risk management\n"

		result := services.ParseComplianceReview(response)

		assert.Equal(t, "PASS", result.Status)
		assert.Equal(t, "None", result.Issues)
		assert.Contains(t, result.Recommendations, "risk register")
		assert.Equal(t, 75.0, result.ComplianceScore)
	})

	t.Run("substitutes sentinels for unparseable fields", func(t *testing.T) {
		result := services.ParseComplianceReview("the model rambled instead of following the format")

		assert.Equal(t, "Unable to parse status", result.Status)
		assert.Equal(t, "Unable to parse issues", result.Issues)
		assert.Equal(t, "Unable to parse recommendations", result.Recommendations)
		assert.Equal(t, 0.0, result.ComplianceScore)
	})

	t.Run("multi-line issues stop at recommendations", func(t *testing.T) {
		response := "STATUS: FAIL\n" +
			"ISSUES: Missing pricing section.\nTimeline is vague.\n" +
			"RECOMMENDATIONS: Add pricing appendix.\n"

		result := services.ParseComplianceReview(response)

		assert.Equal(t, "FAIL", result.Status)
		assert.Contains(t, result.Issues, "Missing pricing section")
		assert.Contains(t, result.Issues, "Timeline is vague")
		assert.NotContains(t, result.Issues, "pricing appendix")
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		allPass := services.ParseComplianceReview("STATUS: PASS\nISSUES: None\nRECOMMENDATIONS: None\n✓✓✓✓✓✓✓✓✓✓")
		allFail := services.ParseComplianceReview("STATUS: FAIL\nISSUES: Many\nRECOMMENDATIONS: Rework\n✗✗✗✗")

		assert.Equal(t, 100.0, allPass.ComplianceScore)
		assert.Equal(t, 0.0, allFail.ComplianceScore)
	})
}
