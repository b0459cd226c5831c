package model

// EvidenceSpan is a verbatim excerpt of a section's raw text.
type EvidenceSpan struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Text      string `json:"text"`
}

// Payload carries the body of a suggestion: a delta description for
// project_update, a draft-initiative description for idea.
type Payload struct {
	Description string   `json:"description"`
	Delta       string   `json:"delta,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
}

// Scores holds per-candidate dimension scores.
type Scores struct {
	SectionActionability float64 `json:"section_actionability"`
	TypeChoiceConfidence float64 `json:"type_choice_confidence"`
	SynthesisConfidence  float64 `json:"synthesis_confidence"`
	Overall              float64 `json:"overall"`
	// Ranking orders output only and never gates.
	Ranking float64 `json:"ranking"`
}

// Routing is the attach-or-create decision for a suggestion.
type Routing struct {
	InitiativeID string  `json:"initiative_id,omitempty"`
	Similarity   float64 `json:"similarity"`
	CreateNew    bool    `json:"create_new"`
}

// Action is the explicit optional variant that replaces the old loosely
// typed compatibility field.
type Action string

// ActionComment marks an update that will render as a comment on an
// existing initiative.
const ActionComment Action = "comment"

// Provenance tags how a candidate was synthesized.
type Provenance struct {
	HeadingDerived   bool `json:"heading_derived,omitempty"`
	ExplicitAsk      bool `json:"explicit_ask,omitempty"`
	BSignal          bool `json:"b_signal,omitempty"`
	DenseParagraph   bool `json:"dense_paragraph,omitempty"`
	StructuralBypass bool `json:"structural_bypass,omitempty"`
	SectionLevel     bool `json:"section_level,omitempty"`
}

// ImplicitIdeaSignal is the seed signal of structural-bypass candidates.
// Scoring recognizes it and blends dimensions instead of taking the minimum.
const ImplicitIdeaSignal = 0.61

// ClarificationReason explains why a suggestion needs clarification.
type ClarificationReason string

const (
	ReasonLowActionability  ClarificationReason = "low_actionability_score"
	ReasonLowOverall        ClarificationReason = "low_overall_score"
	ReasonValidatorRejected ClarificationReason = "validator_rejected"
)

// Suggestion is an emitted, evidence-grounded suggestion.
type Suggestion struct {
	ID                   string                `json:"id"`
	NoteID               string                `json:"note_id"`
	SectionID            string                `json:"section_id"`
	Type                 SuggestionType        `json:"type"`
	Title                string                `json:"title"`
	Payload              Payload               `json:"payload"`
	EvidenceSpans        []EvidenceSpan        `json:"evidence_spans"`
	Scores               Scores                `json:"scores"`
	Routing              Routing               `json:"routing"`
	SuggestionKey        string                `json:"suggestion_key"`
	NeedsClarification   bool                  `json:"needs_clarification"`
	ClarificationReasons []ClarificationReason `json:"clarification_reasons,omitempty"`
	IsHighConfidence     bool                  `json:"is_high_confidence"`
	Provenance           Provenance            `json:"provenance"`
	Action               Action                `json:"action,omitempty"`
}

// Candidate is a suggestion in flight through validation, scoring and
// routing. Stages annotate it in place; it is copied out on emission.
type Candidate struct {
	Suggestion
	Section *ClassifiedSection
	// AnchorIndex is the unit index the candidate was synthesized from, or -1
	// for section-wide candidates.
	AnchorIndex int
	AnchorText  string
	// Signal is the seed actionable signal for scoring.
	Signal     float64
	Confidence float64
	// Intent is the plan_change/new_workstream evidence behind the type.
	Intent IntentScores
	// FromActionableSection is true when the source section passed the gate.
	FromActionableSection bool
	Validation            []ValidationOutcome
}

// ValidationOutcome records one validator's verdict.
type ValidationOutcome struct {
	Validator string `json:"validator"`
	Passed    bool   `json:"passed"`
	Reason    string `json:"reason,omitempty"`
}

// Stage names a pipeline stage for drop accounting.
type Stage string

const (
	StageSegmentation   Stage = "segmentation"
	StageClassification Stage = "classification"
	StageSynthesis      Stage = "synthesis"
	StageValidation     Stage = "validation"
	StageScoring        Stage = "scoring"
	StageEmit           Stage = "emit"
)

// DropReason is the closed taxonomy of drop reasons.
type DropReason string

const (
	DropSegmentation      DropReason = "segmentation_dropped"
	DropNotActionable     DropReason = "not_actionable"
	DropTypeNonActionable DropReason = "type_non_actionable"
	DropProcessNoise      DropReason = "process_noise_suppressed"
	DropDuplicate         DropReason = "duplicate_signal"
	DropV2GenericContent  DropReason = "v2_generic_content"
	DropV2GenericTitle    DropReason = "v2_generic_title"
	DropV3Ungrounded      DropReason = "v3_evidence_ungrounded"
	DropV3TooShort        DropReason = "v3_evidence_too_short"
	DropV3MissingRequest  DropReason = "v3_missing_request_pattern"
	DropV3NoEvidence      DropReason = "v3_no_evidence"
	DropV4HeadingOnly     DropReason = "v4_heading_only"
	DropBelowThreshold    DropReason = "below_threshold"
	DropMaxSuggestions    DropReason = "max_suggestions"
)

// DropRecord is one audited drop decision.
type DropRecord struct {
	Stage     Stage      `json:"stage"`
	Reason    DropReason `json:"reason"`
	SectionID string     `json:"section_id,omitempty"`
	Title     string     `json:"title,omitempty"`
}

// GeneratorDebugInfo exposes per-stage counts for auditing.
type GeneratorDebugInfo struct {
	SectionCount             int                 `json:"section_count"`
	ActionableSectionCount   int                 `json:"actionable_section_count"`
	PlanChangeSectionCount   int                 `json:"plan_change_section_count"`
	CandidatesSynthesized    int                 `json:"candidates_synthesized"`
	CandidatesPostValidation int                 `json:"candidates_post_validation"`
	CandidatesPostScoring    int                 `json:"candidates_post_scoring"`
	ValidatorDrops           map[string]int      `json:"validator_drops"`
	Drops                    []DropRecord        `json:"drops"`
	PlanChangeEmitted        bool                `json:"plan_change_emitted"`
	LLMFallbacks             int                 `json:"llm_fallbacks"`
	Sections                 []ClassifiedSection `json:"sections,omitempty"`
}

// GeneratorResult is the pipeline output.
type GeneratorResult struct {
	Suggestions []Suggestion        `json:"suggestions"`
	Debug       *GeneratorDebugInfo `json:"debug,omitempty"`
}
