package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/metrics"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/validate"
)

const strategyNote = `# Agatha Gamification Strategy

- Award streak badges for daily practice sessions
- Add a leaderboard for classroom cohorts
- Unlock bonus lessons after completing weekly goals
- Track points per learner in the progress dashboard`

const deltaNote = "The product launch moved from January to February due to infra delays."

const mixedNote = "We need to add retry logic to the reporting export API. " +
	"We should add a caching layer for the dashboard queries. " +
	"If we can't get the reporting module stable by the 15th, we should pull the product from the marketing blast."

const noiseNote = `## Compliance

- Unclear who owns final QA sign-off for SOC2.
- Customers want an audit log export for SOC2 reviews.`

const combinedNote = `## Launch

The product launch moved from January to February due to infra delays.

## Reporting

- We need to add retry logic to the reporting export API.
- We should add a caching layer for the dashboard queries.

## Compliance

- Unclear who owns final QA sign-off for SOC2.
- Customers want an audit log export for SOC2 reviews.

## Logistics

- Move standup to 10am on Tuesday`

func generate(t *testing.T, text string, opts ...Option) model.GeneratorResult {
	t.Helper()
	cfg := config.Default()
	cfg.EnableDebug = true
	return New(cfg, opts...).Generate(context.Background(), model.NoteInput{NoteID: "note-1", RawText: text}, nil)
}

func byType(res model.GeneratorResult, typ model.SuggestionType) []model.Suggestion {
	var out []model.Suggestion
	for _, s := range res.Suggestions {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func suggestionText(s model.Suggestion) string {
	parts := []string{s.Title, s.Payload.Description}
	for _, sp := range s.EvidenceSpans {
		parts = append(parts, sp.Text)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func TestGenerate_EmptyNote(t *testing.T) {
	for _, text := range []string{"", "   \n\n\t"} {
		res := New(config.Default()).Generate(context.Background(), model.NoteInput{NoteID: "n", RawText: text}, nil)
		assert.Empty(t, res.Suggestions)
		assert.Nil(t, res.Debug)
	}
}

func TestGenerate_StrategyOverride(t *testing.T) {
	res := generate(t, strategyNote)
	ideas := byType(res, model.TypeIdea)
	require.Len(t, ideas, 1)
	assert.Contains(t, strings.ToLower(ideas[0].Title), "gamification")
	for _, s := range byType(res, model.TypeProjectUpdate) {
		assert.NotContains(t, suggestionText(s), "gamification")
	}
}

func TestGenerate_DeltaOverride(t *testing.T) {
	res := generate(t, deltaNote)
	updates := byType(res, model.TypeProjectUpdate)
	require.Len(t, updates, 1)
	text := suggestionText(updates[0])
	assert.Contains(t, text, "january")
	assert.Contains(t, text, "february")
	assert.Contains(t, text, "launch")
	assert.Equal(t, "January to February", updates[0].Payload.Delta)
	assert.True(t, res.Debug.PlanChangeEmitted)
}

func TestGenerate_MarketingConditional(t *testing.T) {
	res := generate(t, mixedNote)
	updates := byType(res, model.TypeProjectUpdate)
	require.Len(t, updates, 1)
	assert.True(t, strings.HasPrefix(updates[0].Title, "Update: Pull"), updates[0].Title)
	assert.Contains(t, updates[0].EvidenceSpans[0].Text, "marketing blast")

	ideas := byType(res, model.TypeIdea)
	require.NotEmpty(t, ideas)
	for _, s := range res.Suggestions {
		assert.NotContains(t, s.Title, "Implement")
	}
	for _, s := range ideas {
		assert.NotContains(t, suggestionText(s), "marketing blast")
	}
}

func TestGenerate_NoiseSuppression(t *testing.T) {
	for _, text := range []string{noiseNote, combinedNote} {
		res := generate(t, text)
		for _, s := range res.Suggestions {
			assert.NotContains(t, s.Title, "Unclear who owns")
			assert.NotContains(t, s.Payload.Description, "Unclear who owns")
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := generate(t, combinedNote)
	b := generate(t, combinedNote)
	assert.Equal(t, a, b)
	require.NotEmpty(t, a.Suggestions)
	assert.Equal(t, "sug_1", a.Suggestions[0].ID)
}

func TestGenerate_Ordering(t *testing.T) {
	res := generate(t, combinedNote)
	require.NotEmpty(t, res.Suggestions)
	seenIdea := false
	var prev *model.Suggestion
	for i := range res.Suggestions {
		s := &res.Suggestions[i]
		if s.Type == model.TypeIdea {
			seenIdea = true
		} else {
			assert.False(t, seenIdea, "project_update after idea: %s", s.Title)
		}
		if prev != nil && prev.Type == s.Type {
			assert.GreaterOrEqual(t, prev.Scores.Ranking, s.Scores.Ranking)
		}
		prev = s
	}
}

func TestGenerate_EvidenceGrounded(t *testing.T) {
	for _, text := range []string{strategyNote, deltaNote, mixedNote, noiseNote, combinedNote} {
		res := generate(t, text)
		raw := map[string]string{}
		for _, cs := range res.Debug.Sections {
			raw[cs.Section.ID] = cs.Section.RawText
		}
		for _, s := range res.Suggestions {
			require.NotEmpty(t, s.EvidenceSpans, s.Title)
			for _, sp := range s.EvidenceSpans {
				assert.True(t, validate.Grounded(sp.Text, raw[s.SectionID]), "%q not in section %s", sp.Text, s.SectionID)
			}
			assert.NotEmpty(t, s.SuggestionKey)
		}
	}
}

func TestGenerate_CalendarChatterDropped(t *testing.T) {
	res := generate(t, "## Logistics\n\n- Move standup to 10am on Tuesday")
	assert.Empty(t, res.Suggestions)
	require.NotEmpty(t, res.Debug.Drops)
	assert.Equal(t, model.DropNotActionable, res.Debug.Drops[0].Reason)
	assert.Equal(t, model.StageClassification, res.Debug.Drops[0].Stage)
}

func TestGenerate_MaxSuggestions(t *testing.T) {
	cfg := config.Default()
	cfg.EnableDebug = true
	full := New(cfg).Generate(context.Background(), model.NoteInput{NoteID: "n", RawText: combinedNote}, nil)
	updates := len(byType(full, model.TypeProjectUpdate))
	require.Greater(t, len(full.Suggestions), updates+1)

	cfg.MaxSuggestions = updates + 1
	res := New(cfg).Generate(context.Background(), model.NoteInput{NoteID: "n", RawText: combinedNote}, nil)
	assert.Len(t, res.Suggestions, updates+1)
	assert.Len(t, byType(res, model.TypeProjectUpdate), updates)

	cut := 0
	for _, d := range res.Debug.Drops {
		if d.Reason == model.DropMaxSuggestions {
			cut++
			assert.Equal(t, model.StageEmit, d.Stage)
		}
	}
	assert.Equal(t, len(full.Suggestions)-len(res.Suggestions), cut)
}

func TestGenerate_MaxSuggestionsNeverCutsUpdates(t *testing.T) {
	cfg := config.Default()
	cfg.MaxSuggestions = 1
	res := New(cfg).Generate(context.Background(), model.NoteInput{NoteID: "n", RawText: combinedNote + "\n\n## Beta\n\nThe beta slipped by 2 weeks."}, nil)
	assert.Len(t, byType(res, model.TypeIdea), 0)
	assert.GreaterOrEqual(t, len(byType(res, model.TypeProjectUpdate)), 2)
}

func TestGenerate_RoutesToInitiative(t *testing.T) {
	initiatives := []model.InitiativeSnapshot{
		{ID: "init-billing", Title: "Billing migration", Description: "Move invoices to the new ledger service"},
		{ID: "init-launch", Title: "Product launch", Description: "Launch the product in January"},
	}
	res := New(config.Default()).Generate(context.Background(), model.NoteInput{NoteID: "n", RawText: deltaNote}, initiatives)
	updates := byType(res, model.TypeProjectUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, "init-launch", updates[0].Routing.InitiativeID)
	assert.False(t, updates[0].Routing.CreateNew)
	assert.Equal(t, model.ActionComment, updates[0].Action)
}

func TestGenerate_NoInitiativesCreatesNew(t *testing.T) {
	res := generate(t, deltaNote)
	require.NotEmpty(t, res.Suggestions)
	for _, s := range res.Suggestions {
		assert.True(t, s.Routing.CreateNew)
		assert.Empty(t, s.Action)
	}
}

type failingProvider struct{ calls int }

func (p *failingProvider) ClassifyIntent(context.Context, string) (model.IntentScores, error) {
	p.calls++
	return model.IntentScores{}, errors.New("upstream unavailable")
}

func TestGenerate_LLMFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := &failingProvider{}
	cfg := config.Default()
	cfg.EnableDebug = true
	cfg.UseLLMClassifiers = true

	got := New(cfg, WithIntentProvider(p), WithLogger(zap.New(core))).
		Generate(context.Background(), model.NoteInput{NoteID: "note-1", RawText: combinedNote}, nil)
	want := generate(t, combinedNote)

	assert.Equal(t, got.Debug.SectionCount, p.calls)
	assert.Equal(t, got.Debug.SectionCount, got.Debug.LLMFallbacks)
	assert.Equal(t, got.Debug.SectionCount, logs.FilterMessage("intent provider failed, using rule scores").Len())
	assert.Equal(t, want.Suggestions, got.Suggestions)
}

func TestGenerate_ProviderIgnoredWhenDisabled(t *testing.T) {
	p := &failingProvider{}
	res := generate(t, deltaNote, WithIntentProvider(p))
	assert.Zero(t, p.calls)
	assert.Zero(t, res.Debug.LLMFallbacks)
}

func TestGenerate_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	res := generate(t, combinedNote, WithMetrics(m))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
	total := 0.0
	for _, typ := range []model.SuggestionType{model.TypeIdea, model.TypeProjectUpdate} {
		for _, clar := range []string{"true", "false"} {
			total += testutil.ToFloat64(m.Suggestions.WithLabelValues(string(typ), clar))
		}
	}
	assert.Equal(t, float64(len(res.Suggestions)), total)
}

func TestGuardPlanChanges(t *testing.T) {
	sec := func(id string, strategy bool) *model.ClassifiedSection {
		return &model.ClassifiedSection{
			Section:          &model.Section{ID: id},
			Dominant:         model.IntentPlanChange,
			StrategyOverride: strategy,
		}
	}
	planned := sec("sec_1", false)
	strategy := sec("sec_2", true)
	update := &model.Candidate{
		Suggestion: model.Suggestion{SectionID: "sec_1", Type: model.TypeProjectUpdate, Title: "Update: Beta slips"},
		Section:    planned,
	}
	update.Provenance.SectionLevel = true
	other := &model.Candidate{
		Suggestion: model.Suggestion{SectionID: "sec_2", Type: model.TypeProjectUpdate, Title: "Update: Strategy"},
		Section:    strategy,
	}

	r := &run{g: New(config.Default()), seq: model.NewSequence(), debug: &model.GeneratorDebugInfo{}}
	kept := r.guardPlanChanges([]*model.ClassifiedSection{planned, strategy}, nil, []*model.Candidate{update, other})

	require.Len(t, kept, 1)
	assert.Same(t, update, kept[0])
	assert.True(t, kept[0].NeedsClarification)
	assert.Equal(t, []model.ClarificationReason{model.ReasonValidatorRejected}, kept[0].ClarificationReasons)
}

func TestGuardPlanChanges_KeepsExisting(t *testing.T) {
	cs := &model.ClassifiedSection{Section: &model.Section{ID: "sec_1"}, Dominant: model.IntentPlanChange}
	update := &model.Candidate{Suggestion: model.Suggestion{SectionID: "sec_1", Type: model.TypeProjectUpdate}}
	r := &run{g: New(config.Default()), seq: model.NewSequence(), debug: &model.GeneratorDebugInfo{}}
	kept := r.guardPlanChanges([]*model.ClassifiedSection{cs}, []*model.Candidate{update}, []*model.Candidate{update})
	require.Len(t, kept, 1)
	assert.False(t, kept[0].NeedsClarification)
}

func TestOrder(t *testing.T) {
	mk := func(typ model.SuggestionType, rank float64, title string) *model.Candidate {
		c := &model.Candidate{Suggestion: model.Suggestion{Type: typ, Title: title}}
		c.Scores.Ranking = rank
		return c
	}
	cands := []*model.Candidate{
		mk(model.TypeIdea, 0.9, "a"),
		mk(model.TypeProjectUpdate, 0.2, "b"),
		mk(model.TypeIdea, 0.9, "c"),
		mk(model.TypeProjectUpdate, 0.7, "d"),
	}
	order(cands)
	var titles []string
	for _, c := range cands {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, titles)
}

func TestRestorable_SkipsUngrounded(t *testing.T) {
	ungroundedUpdate := &model.Candidate{Suggestion: model.Suggestion{SectionID: "sec_1", Type: model.TypeProjectUpdate, Title: "a"}}
	ungroundedUpdate.Provenance.SectionLevel = true
	ungroundedUpdate.Validation = []model.ValidationOutcome{
		{Validator: validate.V1Informational, Passed: true},
		{Validator: validate.V2Generic, Passed: true},
		{Validator: validate.V3Evidence, Passed: false, Reason: string(model.DropV3Ungrounded)},
	}
	short := &model.Candidate{Suggestion: model.Suggestion{SectionID: "sec_1", Type: model.TypeProjectUpdate, Title: "b"}}
	short.Validation = []model.ValidationOutcome{
		{Validator: validate.V3Evidence, Passed: false, Reason: string(model.DropV3TooShort)},
	}

	assert.Same(t, short, restorable([]*model.Candidate{ungroundedUpdate, short}, "sec_1"))
	assert.Nil(t, restorable([]*model.Candidate{ungroundedUpdate}, "sec_1"))
}
