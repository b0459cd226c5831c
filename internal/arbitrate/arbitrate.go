// Package arbitrate chooses between idea and project_update.
package arbitrate

import (
	"strings"

	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

const strategyMinBullets = 3

// Section returns the type for a classified section and whether the
// strategy override decided it.
func Section(cs *model.ClassifiedSection) (model.SuggestionType, bool) {
	if StrategyOverride(cs.Section) {
		return model.TypeIdea, true
	}
	if cs.IsPlanChange() {
		return model.TypeProjectUpdate, false
	}
	return model.TypeIdea, false
}

// StrategyOverride reports a strategy-style section: a strategy keyword in
// the heading, at least three bullets, and no concrete delta or schedule
// event anywhere in the section.
func StrategyOverride(sec *model.Section) bool {
	if !sec.HasHeading() || !rules.StrategyHeading.Any(sec.HeadingText) {
		return false
	}
	if sec.Features.ListItemCount < strategyMinBullets {
		return false
	}
	text := sec.HeadingText + "\n" + bodyText(sec)
	return !rules.ConcreteDelta.Any(text) && !rules.ScheduleEvent.Any(text)
}

// Candidate types a unit-anchored candidate. A candidate-level plan signal
// wins; otherwise the unit's own intent decides, falling back to the
// section type.
func Candidate(sectionType model.SuggestionType, u model.Unit) model.SuggestionType {
	if PlanSignal(u.Content) {
		return model.TypeProjectUpdate
	}
	switch u.Intent {
	case model.IntentPlanChange:
		return model.TypeProjectUpdate
	case model.IntentNewWorkstream:
		return model.TypeIdea
	}
	return sectionType
}

// PlanSignal reports a concrete delta, or a schedule-risk verb together with
// a deadline reference.
func PlanSignal(text string) bool {
	if rules.ConcreteDelta.Any(text) {
		return true
	}
	return rules.RiskVerb.Any(text) && rules.DeadlineRef.Any(text)
}

// DeltaPhrase returns the first concrete delta in text, or "".
func DeltaPhrase(text string) string {
	if m, ok := rules.ConcreteDelta.First(text); ok {
		return strings.TrimSpace(m.Text)
	}
	return ""
}

func bodyText(sec *model.Section) string {
	parts := make([]string, len(sec.BodyLines))
	for i, l := range sec.BodyLines {
		parts[i] = l.Content
	}
	return strings.Join(parts, "\n")
}
