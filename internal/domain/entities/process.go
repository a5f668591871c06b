package entities

import "time"

// ProcessStatus represents the overall pipeline state of a process.
type ProcessStatus string

const (
	ProcessStatusProcessing        ProcessStatus = "processing"
	ProcessStatusDecisionCompleted ProcessStatus = "decision_completed"
	ProcessStatusCompleted         ProcessStatus = "completed"
	ProcessStatusFailed            ProcessStatus = "failed"
)

// StageStatus represents the state of a single pipeline stage.
type StageStatus string

const (
	StageStatusPending    StageStatus = "pending"
	StageStatusInProgress StageStatus = "in_progress"
	StageStatusCompleted  StageStatus = "completed"
)

// Bid decision values produced by the decision stage.
const (
	DecisionBid   = "BID"
	DecisionNoBid = "NO_BID"
)

// DecisionResult is the outcome of the bid decision stage.
type DecisionResult struct {
	Decision   string  `json:"decision"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// IsBid reports whether the decision was to bid on the RFP.
func (r *DecisionResult) IsBid() bool {
	return r != nil && r.Decision == DecisionBid
}

// DraftResult is the outcome of the draft generation stage. When the
// completion service failed, Error is set and Content carries fallback
// text; the pipeline still proceeds to compliance review.
type DraftResult struct {
	Content     string    `json:"content"`
	Error       string    `json:"error,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ComplianceResult is the outcome of the compliance review stage.
type ComplianceResult struct {
	Status          string  `json:"status"`
	Issues          string  `json:"issues"`
	Recommendations string  `json:"recommendations"`
	ComplianceScore float64 `json:"compliance_score"`
	Error           string  `json:"error,omitempty"`
}

// StageState tracks status and completion time of one pipeline stage.
type StageState struct {
	Status    StageStatus `json:"status"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
}

// DecisionStage is the decision step with its typed result.
type DecisionStage struct {
	StageState
	Result *DecisionResult `json:"result,omitempty"`
}

// GenerationStage is the generation step with its typed result.
type GenerationStage struct {
	StageState
	Result *DraftResult `json:"result,omitempty"`
}

// ComplianceStage is the compliance step with its typed result.
type ComplianceStage struct {
	StageState
	Result *ComplianceResult `json:"result,omitempty"`
}

// ProcessSteps is the ordered record of the four pipeline stages.
// Stages transition strictly left to right; generation and compliance
// only run when the decision result is BID.
type ProcessSteps struct {
	Ingestion  StageState      `json:"ingestion"`
	Decision   DecisionStage   `json:"decision"`
	Generation GenerationStage `json:"generation"`
	Compliance ComplianceStage `json:"compliance"`
}

// Process represents one run of the pipeline over a single document.
type Process struct {
	ID          string        `json:"process_id" db:"id"`
	DocumentID  string        `json:"document_id" db:"document_id"`
	Status      ProcessStatus `json:"status" db:"status"`
	Steps       ProcessSteps  `json:"steps" db:"steps"`
	ResponseKey string        `json:"s3_response_key,omitempty" db:"response_key"`
	Error       string        `json:"error,omitempty" db:"error"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// NewProcess creates a process record ready for the decision stage.
// Ingestion is pre-marked completed because document text is already
// extracted by the time processing starts.
func NewProcess(id, documentID string, now time.Time) *Process {
	return &Process{
		ID:         id,
		DocumentID: documentID,
		Status:     ProcessStatusProcessing,
		Steps: ProcessSteps{
			Ingestion:  StageState{Status: StageStatusCompleted, Timestamp: &now},
			Decision:   DecisionStage{StageState: StageState{Status: StageStatusPending}},
			Generation: GenerationStage{StageState: StageState{Status: StageStatusPending}},
			Compliance: ComplianceStage{StageState: StageState{Status: StageStatusPending}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
