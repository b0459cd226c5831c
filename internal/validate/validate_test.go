package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
)

func section(raw string, dominant model.Intent) *model.ClassifiedSection {
	heading := &model.Line{Index: 0, Text: "# Heading", Content: "Heading", Type: model.LineHeading}
	return &model.ClassifiedSection{
		Section:       &model.Section{ID: "sec_1", RawText: raw, HeadingLine: heading, HeadingText: "Heading"},
		Dominant:      dominant,
		SuggestedType: model.TypeIdea,
	}
}

func candidate(cs *model.ClassifiedSection, typ model.SuggestionType, title, desc string, spans ...model.EvidenceSpan) *model.Candidate {
	return &model.Candidate{
		Suggestion: model.Suggestion{
			SectionID:     cs.Section.ID,
			Type:          typ,
			Title:         title,
			Payload:       model.Payload{Description: desc},
			EvidenceSpans: spans,
		},
		Section:     cs,
		AnchorIndex: 1,
	}
}

func sp(line int, text string) model.EvidenceSpan {
	return model.EvidenceSpan{StartLine: line, EndLine: line, Text: text}
}

func run(t *testing.T, c *model.Candidate) []Rejection {
	t.Helper()
	_, rejected := New(config.DefaultThresholds()).Run([]*model.Candidate{c})
	return rejected
}

func TestRun_Passes(t *testing.T) {
	raw := "# Heading\n- Add a CSV export to the reports page"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: Add a CSV export to the reports page",
		"Add a CSV export to the reports page", sp(1, "- Add a CSV export to the reports page"))
	kept, rejected := New(config.DefaultThresholds()).Run([]*model.Candidate{c})
	assert.Empty(t, rejected)
	require.Len(t, kept, 1)
	require.Len(t, c.Validation, 4)
	for _, o := range c.Validation {
		assert.True(t, o.Passed, o.Validator)
	}
}

func TestV1_RecordsTypeMismatch(t *testing.T) {
	raw := "# Heading\n- Delay the beta launch to March"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeProjectUpdate, "Update: Delay the beta launch to March",
		"Delay the beta launch to March", sp(1, "- Delay the beta launch to March"))
	assert.Empty(t, run(t, c))
	assert.Equal(t, V1Informational, c.Validation[0].Validator)
	assert.Equal(t, "candidate type differs from section type", c.Validation[0].Reason)
}

func TestV2_Generic(t *testing.T) {
	raw := "# Heading\n- We should align on priorities and improve the process going forward"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: Align on priorities and improve the process",
		"We should align on priorities and improve the process going forward",
		sp(1, "- We should align on priorities and improve the process going forward"))
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, V2Generic, rejected[0].Validator)
	assert.Equal(t, model.DropV2GenericContent, rejected[0].Reason)
}

func TestV2_GenericTitleOnly(t *testing.T) {
	raw := "# Heading\n- Customers want an audit log export for SOC2 reviews and a CSV API"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: New opportunity identified",
		"Customers want an audit log export for SOC2 reviews and a CSV API",
		sp(1, "- Customers want an audit log export for SOC2 reviews and a CSV API"))
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.DropV2GenericTitle, rejected[0].Reason)
}

func TestV3_Ungrounded(t *testing.T) {
	cs := section("# Heading\n- Add SSO support", model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: Add SAML support", "Add SAML support", sp(1, "- Add SAML support to the portal"))
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.DropV3Ungrounded, rejected[0].Reason)
}

func TestV3_NoEvidence(t *testing.T) {
	cs := section("# Heading\n- Add SSO support", model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: Add SSO support portal", "Add SSO support")
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.DropV3NoEvidence, rejected[0].Reason)
}

func TestV3_TooShort(t *testing.T) {
	raw := "# Heading\nSSO portal pls"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: SSO portal", "SSO portal pls", sp(1, "SSO portal pls"))
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.DropV3TooShort, rejected[0].Reason)
}

func TestV3_PlanChangeBypassesStructure(t *testing.T) {
	raw := "# Heading\nBeta +2w"
	cs := section(raw, model.IntentPlanChange)
	c := candidate(cs, model.TypeProjectUpdate, "Update: Beta launch shifted", "Beta +2w", sp(1, "Beta +2w"))
	assert.Empty(t, run(t, c))
}

func TestV3_LightweightNeedsRequest(t *testing.T) {
	raw := "# Heading\nSSO portal for the admin team"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: SSO portal for admins", "SSO portal for the admin team", sp(1, "SSO portal for the admin team"))
	c.Provenance.BSignal = true
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.DropV3MissingRequest, rejected[0].Reason)

	c2 := candidate(cs, model.TypeIdea, "Idea: SSO portal", "SSO portal for the admin team", sp(1, "SSO"))
	c2.Provenance.ExplicitAsk = true
	rejected = run(t, c2)
	require.Len(t, rejected, 1)
	assert.Equal(t, model.DropV3TooShort, rejected[0].Reason)
}

func TestV4_HeadingOnly(t *testing.T) {
	raw := "# Mobile offline sync\n"
	cs := section(raw, model.IntentNewWorkstream)
	c := candidate(cs, model.TypeIdea, "Idea: Mobile offline sync", "Mobile offline sync", sp(0, "# Mobile offline sync"))
	c.Provenance.HeadingDerived = true
	rejected := run(t, c)
	require.Len(t, rejected, 1)
	assert.Equal(t, V4HeadingOnly, rejected[0].Validator)

	c2 := candidate(cs, model.TypeIdea, "Idea: Mobile offline sync", "Mobile offline sync", sp(0, "# Mobile offline sync"))
	c2.Provenance.HeadingDerived = true
	c2.Provenance.ExplicitAsk = true
	assert.Empty(t, run(t, c2))
}

func TestGrounded(t *testing.T) {
	raw := "Intro line\n- We need to add retry logic to the reporting export API before rollout"
	assert.True(t, Grounded("- We need to add retry logic to the reporting export API before rollout", raw))
	assert.True(t, Grounded("We need to add retry logic to the reporting export API, rewritten later", raw))
	assert.False(t, Grounded("Something else entirely", raw))
	assert.False(t, Grounded("   ", raw))
}
