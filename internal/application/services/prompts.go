package services

import (
	"fmt"
	"strings"

	"github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"
)

const (
	// Document content is truncated before prompt assembly to keep
	// requests within the completion provider's context window.
	decisionContentLimit = 2000
	draftContentLimit    = 3000

	decisionMaxTokens   = 500
	draftMaxTokens      = 2000
	complianceMaxTokens = 1000

	decisionTemperature   = 0.3
	draftTemperature      = 0.5
	complianceTemperature = 0.2
)

// truncateContent cuts on a rune boundary so multi-byte characters
// never arrive split in the prompt.
func truncateContent(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}

func buildDecisionPrompt(document *entities.Document, bc *entities.BusinessContext) string {
	var b strings.Builder
	b.WriteString("You are a bid strategist. Decide whether we should bid on the following RFP.\n\n")
	b.WriteString("RFP DETAILS:\n")
	fmt.Fprintf(&b, "- Client: %s\n", document.ClientName)
	fmt.Fprintf(&b, "- Region: %s\n", document.Region)
	fmt.Fprintf(&b, "- Industry: %s\n\n", document.Industry)
	b.WriteString("COMPANY PROFILE:\n")
	fmt.Fprintf(&b, "- Service regions: %s\n", bc.ServiceRegions)
	fmt.Fprintf(&b, "- Capacity: %s\n", bc.Capacity)
	fmt.Fprintf(&b, "- Experience: %s\n", bc.Experience)
	fmt.Fprintf(&b, "- Delivery timeline: %s\n", bc.Timeline)
	fmt.Fprintf(&b, "- Minimum project size: %s\n", bc.MinProjectSize)
	fmt.Fprintf(&b, "- Current workload: %s\n", bc.CurrentWorkload)
	fmt.Fprintf(&b, "- Specialties: %s\n", bc.Specialties)
	fmt.Fprintf(&b, "- Team size: %s\n", bc.TeamSize)
	fmt.Fprintf(&b, "- Certifications: %s\n\n", bc.Certifications)
	b.WriteString("RFP CONTENT:\n")
	b.WriteString(truncateContent(document.Content, decisionContentLimit))
	b.WriteString("\n\n")
	b.WriteString("Respond with exactly one of BID or NO_BID on the first line, ")
	b.WriteString("followed by a short explanation of the decision.")
	return b.String()
}

func buildDraftPrompt(document *entities.Document, reasoning, templates string, bc *entities.BusinessContext) string {
	var b strings.Builder
	b.WriteString("You are a proposal writer. Draft a complete RFP response using the ")
	b.WriteString("company profile and the response templates below.\n\n")
	b.WriteString("RFP DETAILS:\n")
	fmt.Fprintf(&b, "- Client: %s\n", document.ClientName)
	fmt.Fprintf(&b, "- Region: %s\n", document.Region)
	fmt.Fprintf(&b, "- Industry: %s\n\n", document.Industry)
	b.WriteString("BID DECISION REASONING:\n")
	b.WriteString(reasoning)
	b.WriteString("\n\n")
	b.WriteString("COMPANY PROFILE:\n")
	fmt.Fprintf(&b, "- Experience: %s\n", bc.Experience)
	fmt.Fprintf(&b, "- Specialties: %s\n", bc.Specialties)
	fmt.Fprintf(&b, "- Team size: %s\n", bc.TeamSize)
	fmt.Fprintf(&b, "- Certifications: %s\n", bc.Certifications)
	fmt.Fprintf(&b, "- Delivery timeline: %s\n\n", bc.Timeline)
	b.WriteString("RESPONSE TEMPLATES:\n")
	b.WriteString(templates)
	b.WriteString("\n\n")
	b.WriteString("RFP CONTENT:\n")
	b.WriteString(truncateContent(document.Content, draftContentLimit))
	b.WriteString("\n\n")
	b.WriteString("Structure the response with the following sections:\n")
	b.WriteString("1. Executive Summary\n")
	b.WriteString("2. Company Overview\n")
	b.WriteString("3. Proposed Solution\n")
	b.WriteString("4. Timeline\n")
	b.WriteString("5. Pricing\n")
	b.WriteString("6. Team Qualifications\n")
	b.WriteString("7. References\n")
	return b.String()
}

func buildCompliancePrompt(draft, rules string, bc *entities.BusinessContext) string {
	var b strings.Builder
	b.WriteString("You are a compliance reviewer. Review the draft RFP response below ")
	b.WriteString("against the company profile, the compliance rules and this checklist:\n\n")
	b.WriteString("1. HIPAA and data-privacy requirements addressed\n")
	b.WriteString("2. Professional standards followed\n")
	b.WriteString("3. Certification claims are accurate\n")
	b.WriteString("4. Regional coverage claims are accurate\n")
	b.WriteString("5. Timeline commitments are realistic\n")
	b.WriteString("6. Pricing is internally consistent\n")
	b.WriteString("7. All required sections are complete\n")
	b.WriteString("8. Technical statements are accurate\n")
	b.WriteString("9. Relevant regulations are mentioned\n")
	b.WriteString("10. Risk management is addressed\n\n")
	b.WriteString("COMPANY PROFILE:\n")
	fmt.Fprintf(&b, "- Service regions: %s\n", bc.ServiceRegions)
	fmt.Fprintf(&b, "- Certifications: %s\n", bc.Certifications)
	fmt.Fprintf(&b, "- Delivery timeline: %s\n\n", bc.Timeline)
	b.WriteString("COMPLIANCE RULES:\n")
	b.WriteString(rules)
	b.WriteString("\n\n")
	b.WriteString("DRAFT RESPONSE:\n")
	b.WriteString(draft)
	b.WriteString("\n\n")
	b.WriteString("Respond in exactly this format:\n")
	b.WriteString("STATUS: <PASS or FAIL>\n")
	b.WriteString("ISSUES: <list of issues found, or None>\n")
	b.WriteString("RECOMMENDATIONS: <list of recommendations, or None>\n\n")
	b.WriteString("For each checklist item include a line starting with ✓ if it passes ")
	b.WriteString("or ✗ if it fails.")
	return b.String()
}
