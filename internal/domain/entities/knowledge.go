package entities

import "time"

// KnowledgeContentType classifies knowledge base entries.
type KnowledgeContentType string

const (
	KnowledgeTypeBusinessContext KnowledgeContentType = "business_context"
	KnowledgeTypeTemplates       KnowledgeContentType = "templates"
	KnowledgeTypeComplianceRules KnowledgeContentType = "compliance_rules"
)

// ValidKnowledgeContentType reports whether t is a known content type.
func ValidKnowledgeContentType(t KnowledgeContentType) bool {
	switch t {
	case KnowledgeTypeBusinessContext, KnowledgeTypeTemplates, KnowledgeTypeComplianceRules:
		return true
	}
	return false
}

// KnowledgeEntry is a knowledge base record used to parametrize pipeline
// prompts. business_context entries carry {"field": ..., "value": ...}
// pairs in ContentData; templates and compliance_rules entries carry
// free-form text under "text".
type KnowledgeEntry struct {
	ContentID   string                 `json:"content_id" db:"id"`
	ContentType KnowledgeContentType   `json:"content_type" db:"content_type"`
	Title       string                 `json:"title" db:"title"`
	ContentData map[string]interface{} `json:"content_data" db:"content_data"`
	Description string                 `json:"description" db:"description"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}

// StringField returns a string value from ContentData, or "" when the
// key is absent or not a string.
func (e *KnowledgeEntry) StringField(key string) string {
	if e == nil || e.ContentData == nil {
		return ""
	}
	if v, ok := e.ContentData[key].(string); ok {
		return v
	}
	return ""
}

// BusinessContext is the typed bundle of company facts embedded into
// pipeline prompts. Every field degrades independently to its built-in
// default when the knowledge base is partially seeded.
type BusinessContext struct {
	ServiceRegions  string `json:"service_regions"`
	Capacity        string `json:"capacity"`
	Experience      string `json:"experience"`
	Timeline        string `json:"timeline"`
	MinProjectSize  string `json:"min_project_size"`
	CurrentWorkload string `json:"current_workload"`
	Specialties     string `json:"specialties"`
	TeamSize        string `json:"team_size"`
	Certifications  string `json:"certifications"`
}
