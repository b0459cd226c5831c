package model

// Intent is one of the seven intent dimensions scored per section.
type Intent string

const (
	IntentPlanChange          Intent = "plan_change"
	IntentNewWorkstream       Intent = "new_workstream"
	IntentStatusInformational Intent = "status_informational"
	IntentCommunication       Intent = "communication"
	IntentResearch            Intent = "research"
	IntentCalendar            Intent = "calendar"
	IntentMicroTasks          Intent = "micro_tasks"
)

// IntentOrder is the fixed argmax order. Earlier entries win ties.
var IntentOrder = []Intent{
	IntentPlanChange,
	IntentNewWorkstream,
	IntentStatusInformational,
	IntentCommunication,
	IntentResearch,
	IntentCalendar,
	IntentMicroTasks,
}

// IntentScores holds the seven non-negative intent scores.
type IntentScores struct {
	PlanChange          float64 `json:"plan_change"`
	NewWorkstream       float64 `json:"new_workstream"`
	StatusInformational float64 `json:"status_informational"`
	Communication       float64 `json:"communication"`
	Research            float64 `json:"research"`
	Calendar            float64 `json:"calendar"`
	MicroTasks          float64 `json:"micro_tasks"`
}

// Get returns the score for an intent.
func (s IntentScores) Get(i Intent) float64 {
	switch i {
	case IntentPlanChange:
		return s.PlanChange
	case IntentNewWorkstream:
		return s.NewWorkstream
	case IntentStatusInformational:
		return s.StatusInformational
	case IntentCommunication:
		return s.Communication
	case IntentResearch:
		return s.Research
	case IntentCalendar:
		return s.Calendar
	case IntentMicroTasks:
		return s.MicroTasks
	}
	return 0
}

// Set assigns the score for an intent, clamping negatives to zero.
func (s *IntentScores) Set(i Intent, v float64) {
	if v < 0 {
		v = 0
	}
	switch i {
	case IntentPlanChange:
		s.PlanChange = v
	case IntentNewWorkstream:
		s.NewWorkstream = v
	case IntentStatusInformational:
		s.StatusInformational = v
	case IntentCommunication:
		s.Communication = v
	case IntentResearch:
		s.Research = v
	case IntentCalendar:
		s.Calendar = v
	case IntentMicroTasks:
		s.MicroTasks = v
	}
}

// Raise sets the intent score to v if v is larger than the current score.
func (s *IntentScores) Raise(i Intent, v float64) {
	if v > s.Get(i) {
		s.Set(i, v)
	}
}

// ActionableSignal is max(plan_change, new_workstream).
func (s IntentScores) ActionableSignal() float64 {
	return max(s.PlanChange, s.NewWorkstream)
}

// OutOfScopeSignal is max(calendar, communication, micro_tasks). Research is
// deliberately excluded.
func (s IntentScores) OutOfScopeSignal() float64 {
	return max(s.Calendar, s.Communication, s.MicroTasks)
}

// Dominant returns the argmax intent over IntentOrder. An all-zero vector
// yields the empty intent.
func (s IntentScores) Dominant() Intent {
	var best Intent
	bestScore := 0.0
	for _, i := range IntentOrder {
		if v := s.Get(i); v > bestScore {
			best, bestScore = i, v
		}
	}
	return best
}

// Blend mixes other into s with weight w on other.
func (s IntentScores) Blend(other IntentScores, w float64) IntentScores {
	var out IntentScores
	for _, i := range IntentOrder {
		out.Set(i, (1-w)*s.Get(i)+w*other.Get(i))
	}
	return out
}

// SuggestionType is the emitted suggestion kind.
type SuggestionType string

const (
	TypeIdea          SuggestionType = "idea"
	TypeProjectUpdate SuggestionType = "project_update"
)

// Unit is a scored span of a section: a whole line, or one sentence of a
// dense paragraph line.
type Unit struct {
	Index     int    `json:"index"`
	LineIndex int    `json:"line_index"`
	Text      string `json:"text"`
	// Content is Text with list, checkbox and task markers stripped.
	Content   string  `json:"content"`
	Sentence  bool    `json:"sentence,omitempty"`
	IsHeading bool    `json:"is_heading,omitempty"`
	IsBullet  bool    `json:"is_bullet,omitempty"`
	Score     float64 `json:"score"`
	// Hedged is true when the unit score came only from the hedged-directive rule.
	Hedged bool         `json:"hedged,omitempty"`
	Intent Intent       `json:"intent,omitempty"`
	Rules  []string     `json:"rules,omitempty"`
	Scores IntentScores `json:"scores"`
}

// ClassifiedSection is a section with its intent classification.
type ClassifiedSection struct {
	Section          *Section       `json:"section"`
	Intent           IntentScores   `json:"intent"`
	Units            []Unit         `json:"units"`
	Dominant         Intent         `json:"dominant"`
	IsActionable     bool           `json:"is_actionable"`
	ActionableSignal float64        `json:"actionable_signal"`
	OutOfScopeSignal float64        `json:"out_of_scope_signal"`
	SuggestedType    SuggestionType `json:"suggested_type"`
	// StrategyOverride is set when arbitration forced the section to idea.
	StrategyOverride bool `json:"strategy_override,omitempty"`
	LLMAugmented     bool `json:"llm_augmented,omitempty"`
}

// IsPlanChange reports whether the section's dominant label is plan_change.
func (c *ClassifiedSection) IsPlanChange() bool {
	return c.Dominant == IntentPlanChange
}
