package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMax(t *testing.T) {
	m, ok := Positive.Max("Can we please add a dark mode toggle?")
	require.True(t, ok)
	assert.Equal(t, "strong_request", m.Rule)
	assert.Equal(t, 1.0, m.Weight)

	m, ok = Positive.Max("Add a leaderboard for classroom cohorts")
	require.True(t, ok)
	assert.Equal(t, "imperative", m.Rule)

	_, ok = Positive.Max("The weather was nice")
	assert.False(t, ok)
}

func TestPositiveFamilies(t *testing.T) {
	tests := []struct {
		text string
		rule string
	}{
		{"We should add SSO support", "hedged_directive"},
		{"Beta launch moved to March", "change_operator"},
		{"Customers want an audit log export", "feature_demand"},
		{"Billing migration is at risk", "status_marker"},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.True(t, Positive.Has(tt.rule, tt.text), tt.text)
		})
	}
}

func TestTaskSyntax(t *testing.T) {
	assert.True(t, TaskSyntax.Any("- [ ] wire up the export"))
	assert.True(t, TaskSyntax.Any("TODO: rename the flag"))
	assert.True(t, TaskSyntax.Any("* Action item: draft the RFC"))
	assert.False(t, TaskSyntax.Any("- plain bullet"))
}

func TestNegation(t *testing.T) {
	assert.True(t, Negation.Any("We won't ship the Android app this quarter"))
	assert.True(t, Negation.Any("Do not migrate the billing tables yet"))
	assert.False(t, Negation.Any("If we can't get it stable, we should pull the product"))
}

func TestOutOfScope(t *testing.T) {
	assert.True(t, Calendar.Any("Schedule a follow-up call with legal"))
	assert.True(t, Calendar.Any("Move standup to 10am"))
	assert.True(t, Communication.Any("Ping Dana on Slack about the invoice"))
	assert.True(t, Communication.Any("Send out the recap email"))
	assert.True(t, Micro.Any("Submit expenses for the offsite"))
	assert.False(t, Calendar.Any("Add a leaderboard for classroom cohorts"))
}

func TestConcreteDelta(t *testing.T) {
	yes := []string{
		"The product launch moved from January to February due to infra delays.",
		"Beta slips 2 weeks",
		"Cutover moved 12th -> 19th",
		"Review moved from the 12th to the 19th",
		"Pilot delayed to Q3",
		"GA pushed out to next quarter",
	}
	for _, s := range yes {
		assert.True(t, ConcreteDelta.Any(s), s)
	}
	no := []string{
		"Add a leaderboard for classroom cohorts",
		"Award streak badges for daily practice",
		"The marketing team decided on a new logo",
	}
	for _, s := range no {
		assert.False(t, ConcreteDelta.Any(s), s)
	}
}

func TestPlanSignalParts(t *testing.T) {
	s := "If we can't get the reporting module stable by the 15th, we should pull the product from the marketing blast."
	assert.True(t, RiskVerb.Any(s))
	assert.True(t, DeadlineRef.Any(s))
	assert.True(t, DeadlineRef.Any("ship the fix by EOD"))
	assert.True(t, DeadlineRef.Any("needs to land by Friday"))
	assert.False(t, DeadlineRef.Any("We should add a caching layer"))
}

func TestStrategyAndOperationalHeadings(t *testing.T) {
	assert.True(t, StrategyHeading.Any("Agatha Gamification Strategy"))
	assert.True(t, StrategyHeading.Any("Ticket prioritisation"))
	assert.True(t, StrategyHeading.Any("Scoring rubric"))
	assert.False(t, StrategyHeading.Any("Launch timeline"))

	assert.True(t, OperationalHeading.Any("Action Items"))
	assert.True(t, OperationalHeading.Any("Attendees"))
	assert.False(t, OperationalHeading.Any("Offline mode"))
}

func TestExplicitAsk(t *testing.T) {
	assert.True(t, ExplicitAsk.Any("We should pull the product from the marketing blast"))
	assert.True(t, ExplicitAsk.Any("Add a CSV export to the reports page"))
	assert.True(t, ExplicitAsk.Any("Platform team to ship the webhook retries"))
	assert.False(t, ExplicitAsk.Any("The product launch moved from January to February"))
}

func TestProcessNoise(t *testing.T) {
	assert.True(t, ProcessNoise.Any("Unclear who owns final QA sign-off for SOC2."))
	assert.True(t, ProcessNoise.Any("Handover to the ops team is pending"))
	assert.True(t, ProcessNoise.Any("Ownership is TBD for the vendor review"))
	assert.False(t, ProcessNoise.Any("Customers want an audit log export for SOC2 reviews."))

	assert.True(t, ProcessAllow.Any("- Owner: Priya"))
	assert.True(t, ProcessAllow.Any("Platform team to ship the handover tooling"))
	assert.False(t, ProcessAllow.Any("unclear who owns sign-off"))
}

func TestFeatureDemandCapture(t *testing.T) {
	r := FeatureDemand.Rules[0].Pattern
	loc := r.FindStringSubmatchIndex("Customers want an audit log export for SOC2 reviews.")
	require.NotNil(t, loc)
	assert.Equal(t, "Customers", "Customers want an audit log export for SOC2 reviews."[loc[2]:loc[3]])
	assert.Equal(t, "an audit log export for SOC2 reviews.", "Customers want an audit log export for SOC2 reviews."[loc[1]:])
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"let's", "ship", "the", "v2", "api", "re-run"}, Words("Let's ship the v2 API; re-run!"))
	assert.Equal(t, []string{"ship", "api"}, ContentWords("Let's ship the API", 3))
}

func TestDomainTerms(t *testing.T) {
	assert.Equal(t, 4, DomainTerms("Customers want an audit log export for SOC2 reviews."))
	assert.Equal(t, 0, DomainTerms("We discussed alignment and synergy"))
	assert.True(t, IsAcronym("SOC2"))
	assert.True(t, IsAcronym("API"))
	assert.False(t, IsAcronym("Api"))
	assert.False(t, IsAcronym("A"))
}

func TestNamesStable(t *testing.T) {
	assert.Equal(t, []string{"strong_request", "imperative", "hedged_directive", "change_operator", "feature_demand", "status_marker"}, Positive.Names())
}
