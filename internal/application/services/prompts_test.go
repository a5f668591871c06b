package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

func promptDocument() *entities.Document {
	return &entities.Document{
		ID:         "doc-1",
		Content:    "Request for proposal: claims processing platform.",
		ClientName: "Acme Health",
		Region:     "Europe",
		Industry:   "Healthcare",
	}
}

func promptContext() *entities.BusinessContext {
	return &entities.BusinessContext{
		ServiceRegions: "North America, Europe",
		Certifications: "ISO 27001, SOC 2",
		Timeline:       "8-12 weeks",
		Specialties:    "enterprise software",
	}
}

func TestBuildDecisionPrompt(t *testing.T) {
	prompt := buildDecisionPrompt(promptDocument(), promptContext())

	assert.Contains(t, prompt, "Client: Acme Health")
	assert.Contains(t, prompt, "Region: Europe")
	assert.Contains(t, prompt, "Industry: Healthcare")
	assert.Contains(t, prompt, "Service regions: North America, Europe")
	assert.Contains(t, prompt, "claims processing platform")
	assert.Contains(t, prompt, "BID or NO_BID")
}

func TestBuildDraftPrompt(t *testing.T) {
	prompt := buildDraftPrompt(promptDocument(), "Strong regional fit.", "template text", promptContext())

	assert.Contains(t, prompt, "Strong regional fit.")
	assert.Contains(t, prompt, "Client: Acme Health")
	assert.Contains(t, prompt, "template text")

	for _, section := range []string{
		"Executive Summary",
		"Company Overview",
		"Proposed Solution",
		"Timeline",
		"Pricing",
		"Team Qualifications",
		"References",
	} {
		assert.Contains(t, prompt, section)
	}
}

func TestBuildCompliancePrompt(t *testing.T) {
	prompt := buildCompliancePrompt("draft text", "rule text", promptContext())

	assert.Contains(t, prompt, "Service regions: North America, Europe")
	assert.Contains(t, prompt, "Certifications: ISO 27001, SOC 2")
	assert.Contains(t, prompt, "rule text")
	assert.Contains(t, prompt, "draft text")
	assert.Contains(t, prompt, "STATUS: <PASS or FAIL>")
}

func TestTruncateContent(t *testing.T) {
	t.Run("returns short content unchanged", func(t *testing.T) {
		assert.Equal(t, "short", truncateContent("short", 10))
	})

	t.Run("cuts to the character limit", func(t *testing.T) {
		content := strings.Repeat("a", 2500)
		assert.Len(t, truncateContent(content, 2000), 2000)
	})

	t.Run("never splits a multi-byte character", func(t *testing.T) {
		content := strings.Repeat("✓", 2100)
		truncated := truncateContent(content, 2000)

		assert.True(t, utf8.ValidString(truncated))
		assert.Equal(t, 2000, utf8.RuneCountInString(truncated))
	})
}
