package classify

import (
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

const (
	targetBonus         = 0.2
	targetBonusMinScore = 0.6
	deltaWeight         = 0.8
	researchWeight      = 0.5
	// Out-of-scope units without a domain term are capped just under their
	// out-of-scope weight.
	outOfScopeMargin = 0.1
)

// ScoreUnit fills the unit's actionable score, intent vector and rule hits
// from its content. Task syntax is matched against the unit text.
func ScoreUnit(u *model.Unit) {
	content := u.Content
	var (
		score  float64
		top    string
		names  []string
		status = true
		change bool
	)
	for _, m := range rules.Positive.Matches(content) {
		names = append(names, m.Rule)
		if m.Weight > score {
			score, top = m.Weight, m.Rule
		}
		if m.Rule != "status_marker" {
			status = false
		}
		if m.Rule == "change_operator" {
			change = true
		}
	}
	for _, m := range rules.TaskSyntax.Matches(u.Text) {
		names = append(names, m.Rule)
		status = false
		if m.Weight > score {
			score, top = m.Weight, m.Rule
		}
	}
	if rules.ConcreteDelta.Any(content) {
		names = append(names, "concrete_delta")
		change = true
		status = false
		if deltaWeight > score {
			score, top = deltaWeight, "concrete_delta"
		}
	}

	domain := rules.DomainTerms(content) > 0
	if score >= targetBonusMinScore && domain {
		score = min(score+targetBonus, 1)
		names = append(names, "target_object")
	}
	if rules.Negation.Any(content) {
		score = 0
		names = append(names, "negated_action")
	}

	var v model.IntentScores
	oos := 0.0
	for _, fam := range []struct {
		set    rules.Set
		intent model.Intent
	}{
		{rules.Calendar, model.IntentCalendar},
		{rules.Communication, model.IntentCommunication},
		{rules.Micro, model.IntentMicroTasks},
	} {
		if m, ok := fam.set.Max(content); ok {
			v.Set(fam.intent, m.Weight)
			names = append(names, m.Rule)
			oos = max(oos, m.Weight)
		}
	}
	if oos > 0 && !domain && score >= oos {
		score = oos - outOfScopeMargin
	}
	if rules.Research.Any(content) {
		v.Set(model.IntentResearch, researchWeight)
		names = append(names, "research")
	}

	switch {
	case score <= 0:
		score = 0
	case change:
		v.Set(model.IntentPlanChange, score)
	case status:
		v.Set(model.IntentStatusInformational, score)
	default:
		v.Set(model.IntentNewWorkstream, score)
	}

	u.Score = score
	u.Hedged = top == "hedged_directive"
	u.Rules = names
	u.Scores = v
	u.Intent = v.Dominant()
}

// IsActionableUnit reports whether the unit carries an actionable signal of
// at least tAction.
func IsActionableUnit(u model.Unit, tAction float64) bool {
	if u.Score < tAction {
		return false
	}
	return u.Intent == model.IntentPlanChange || u.Intent == model.IntentNewWorkstream
}
