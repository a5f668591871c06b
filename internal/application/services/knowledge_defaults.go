package services

import "github.com/zatekoja/rfp-response-pipeline/internal/domain/entities"

// Built-in defaults used when the knowledge base has no entry for a
// field. Each business context field degrades independently; templates
// and compliance rules fall back as complete blocks.

var defaultBusinessContext = entities.BusinessContext{
	ServiceRegions:  "North America, Europe",
	Capacity:        "Available for new projects starting next quarter",
	Experience:      "12+ years delivering enterprise IT consulting and managed services",
	Timeline:        "Typical engagements run 3-6 months from kickoff to delivery",
	MinProjectSize:  "$50,000",
	CurrentWorkload: "Moderate; two delivery teams available",
	Specialties:     "Cloud migration, data platform engineering, managed infrastructure",
	TeamSize:        "60 consultants across engineering and delivery",
	Certifications:  "ISO 27001, SOC 2 Type II, AWS Advanced Consulting Partner",
}

const defaultResponseTemplates = `Standard Proposal Template
Open with a concise executive summary tailored to the client's stated objectives.
Describe the proposed solution in terms of client outcomes, not internal tooling.
Include a phased timeline with explicit milestones and acceptance criteria.
Present pricing as a fixed-fee or time-and-materials structure with assumptions listed.
Close with team qualifications and two or three relevant references.

Tone Guidelines
Write in plain, direct language. Avoid superlatives and unverifiable claims.
Every commitment in the proposal must be deliverable under the stated timeline.`

const defaultComplianceRules = `Standard Compliance Rules
All client data handling must comply with applicable data protection regulations,
including HIPAA where health information is involved.
Certifications may only be cited if currently held and verifiable.
Claimed regional coverage must match the regions where the company actually operates.
Proposed timelines must be achievable with the stated team capacity.
Pricing must be internally consistent across all sections of the proposal.
All seven standard proposal sections must be present and complete.
Technical claims must be accurate and current.
Regulatory obligations relevant to the client's industry must be acknowledged.
Risk management measures must be described for delivery and data security.`

// applyBusinessContextField routes a knowledge base field name to its
// destination in the typed bundle. Unknown fields are ignored.
func applyBusinessContextField(bc *entities.BusinessContext, field, value string) {
	if value == "" {
		return
	}
	switch field {
	case "service_regions":
		bc.ServiceRegions = value
	case "capacity":
		bc.Capacity = value
	case "experience":
		bc.Experience = value
	case "timeline":
		bc.Timeline = value
	case "min_project_size":
		bc.MinProjectSize = value
	case "current_workload":
		bc.CurrentWorkload = value
	case "specialties":
		bc.Specialties = value
	case "team_size":
		bc.TeamSize = value
	case "certifications":
		bc.Certifications = value
	}
}
