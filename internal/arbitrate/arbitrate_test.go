package arbitrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/notesuggest/internal/classify"
	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/segment"
)

func classified(t *testing.T, text string) *model.ClassifiedSection {
	t.Helper()
	secs := segment.Segment(model.NewSequence(), "n", text)
	res := classify.New(config.DefaultThresholds()).Classify(context.Background(), secs)
	require.Len(t, res.Sections, 1)
	return res.Sections[0]
}

func TestSection_StrategyOverride(t *testing.T) {
	cs := classified(t, `# Agatha Gamification Strategy

- Award streak badges for daily practice sessions
- Add a leaderboard for classroom cohorts
- Unlock bonus lessons after completing weekly goals
- Track points per learner in the progress dashboard`)
	typ, override := Section(cs)
	assert.Equal(t, model.TypeIdea, typ)
	assert.True(t, override)
}

func TestSection_StrategyBlockedBySchedule(t *testing.T) {
	cs := classified(t, `# Rollout strategy

- Delay the beta launch to March
- Move the pilot to the 19th
- Reprioritize the billing migration`)
	_, override := Section(cs)
	assert.False(t, override)
	typ, _ := Section(cs)
	assert.Equal(t, model.TypeProjectUpdate, typ)
}

func TestSection_StrategyNeedsBullets(t *testing.T) {
	cs := classified(t, "# Pricing strategy\n\n- Add a usage tier\n- Add an annual plan")
	_, override := Section(cs)
	assert.False(t, override)
}

func TestSection_PlanChange(t *testing.T) {
	cs := classified(t, "The product launch moved from January to February due to infra delays.")
	typ, override := Section(cs)
	assert.Equal(t, model.TypeProjectUpdate, typ)
	assert.False(t, override)
}

func TestCandidate(t *testing.T) {
	pull := model.Unit{
		Content: "If we can't get the reporting module stable by the 15th, we should pull the product from the marketing blast.",
		Intent:  model.IntentNewWorkstream,
	}
	assert.Equal(t, model.TypeProjectUpdate, Candidate(model.TypeIdea, pull))

	cache := model.Unit{Content: "We should add a caching layer for the dashboard queries.", Intent: model.IntentNewWorkstream}
	assert.Equal(t, model.TypeIdea, Candidate(model.TypeProjectUpdate, cache))

	slip := model.Unit{Content: "Beta slips 2 weeks", Intent: model.IntentPlanChange}
	assert.Equal(t, model.TypeProjectUpdate, Candidate(model.TypeIdea, slip))

	none := model.Unit{Content: "Some context"}
	assert.Equal(t, model.TypeIdea, Candidate(model.TypeIdea, none))
}

func TestPlanSignal(t *testing.T) {
	assert.True(t, PlanSignal("Cutover moved from the 12th to the 19th"))
	assert.True(t, PlanSignal("Drop the export if it isn't ready by Friday"))
	assert.False(t, PlanSignal("Drop the export"))
	assert.False(t, PlanSignal("Ship the export by Friday"))
}

func TestDeltaPhrase(t *testing.T) {
	assert.Equal(t, "January to February", DeltaPhrase("The product launch moved from January to February due to infra delays."))
	assert.Equal(t, "2 weeks", DeltaPhrase("Beta slips 2 weeks"))
	assert.Equal(t, "", DeltaPhrase("Add a leaderboard"))
}
