// Package synth turns classified sections into suggestion candidates.
package synth

import (
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/notesuggest/internal/arbitrate"
	"github.com/rcliao/notesuggest/internal/classify"
	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

const (
	maxSupportingUnits = 3

	bypassMaxHeadingLevel = 3
	bypassMinBullets      = 3
	bypassMinChars        = 150
	bypassConfidence      = 0.6

	demandConfidence          = 0.65
	demandAmplifiedConfidence = 0.75
	explicitAskMinConfidence  = 0.7
)

// Synthesizer builds candidates from classified sections.
type Synthesizer struct {
	th  config.ThresholdConfig
	log *zap.Logger
}

// New returns a Synthesizer.
func New(th config.ThresholdConfig, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{th: th, log: logger}
}

// Actionable synthesizes candidates for a section that passed the gate.
// Strategy sections yield a single concept candidate; other sections yield
// unit-level extractions plus one section-level candidate.
func (s *Synthesizer) Actionable(noteID string, cs *model.ClassifiedSection) []*model.Candidate {
	if cs.StrategyOverride {
		if c := s.concept(noteID, cs); c != nil {
			return []*model.Candidate{c}
		}
		return nil
	}

	var out []*model.Candidate
	anchored := map[int]bool{}
	for _, u := range cs.Units {
		if u.IsHeading {
			continue
		}
		for _, c := range s.extract(noteID, cs, u) {
			c.FromActionableSection = true
			anchored[u.Index] = true
			out = append(out, c)
		}
	}
	if c := s.sectionLevel(noteID, cs, anchored); c != nil {
		out = append([]*model.Candidate{c}, out...)
	}
	s.log.Debug("synthesized section",
		zap.String("section", cs.Section.ID), zap.Int("candidates", len(out)))
	return out
}

// Bypass synthesizes candidates for a section that failed the gate: a
// structural idea for well-formed bullet sections, and feature-demand
// sentences.
func (s *Synthesizer) Bypass(noteID string, cs *model.ClassifiedSection) []*model.Candidate {
	var out []*model.Candidate
	if c := s.structural(noteID, cs); c != nil {
		out = append(out, c)
	}
	for _, u := range cs.Units {
		if u.IsHeading || u.Scores.OutOfScopeSignal() > 0 {
			continue
		}
		if c := s.demand(noteID, cs, u); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// extract runs the unit-level extractors: explicit asks, dense-paragraph
// sentences, and feature demands.
func (s *Synthesizer) extract(noteID string, cs *model.ClassifiedSection, u model.Unit) []*model.Candidate {
	var out []*model.Candidate
	if explicitAsk(u) {
		c := s.fromUnit(noteID, cs, u, max(u.Score, explicitAskMinConfidence))
		c.Provenance.ExplicitAsk = true
		out = append(out, c)
	}
	if u.Sentence && classify.IsActionableUnit(u, s.th.TAction) {
		c := s.fromUnit(noteID, cs, u, u.Score)
		c.Provenance.DenseParagraph = true
		out = append(out, c)
	}
	if c := s.demand(noteID, cs, u); c != nil {
		out = append(out, c)
	}
	return out
}

// explicitAsk reports a directive verb in directive position together with
// a concrete artifact noun.
func explicitAsk(u model.Unit) bool {
	if u.Scores.OutOfScopeSignal() > 0 && rules.DomainTerms(u.Content) == 0 {
		return false
	}
	if rules.Negation.Any(u.Content) {
		return false
	}
	return rules.ExplicitAsk.Any(u.Content) && rules.DomainTerms(u.Content) > 0
}

func (s *Synthesizer) fromUnit(noteID string, cs *model.ClassifiedSection, u model.Unit, conf float64) *model.Candidate {
	typ := arbitrate.Candidate(cs.SuggestedType, u)
	intent := u.Scores
	if typ == model.TypeProjectUpdate {
		intent.Raise(model.IntentPlanChange, u.Score)
	} else {
		intent.Raise(model.IntentNewWorkstream, u.Score)
	}
	c := newCandidate(noteID, cs, typ, u.Index, u.Content)
	c.Signal = max(u.Score, conf)
	c.Confidence = conf
	c.Intent = intent
	c.EvidenceSpans = []model.EvidenceSpan{span(u)}
	c.Title = s.title(typ, u.Content, c.EvidenceSpans, cs)
	c.Payload = payload(typ, u.Content, c.EvidenceSpans)
	return c
}

// demand extracts a feature-demand candidate: actor plus desire verb.
func (s *Synthesizer) demand(noteID string, cs *model.ClassifiedSection, u model.Unit) *model.Candidate {
	if IsProcessNoise(u.Text) {
		return nil
	}
	title, ok := DemandTitle(u.Content)
	if !ok {
		return nil
	}
	conf := demandConfidence
	if rules.DemandAmplifier.Any(u.Content) {
		conf = demandAmplifiedConfidence
	}
	c := newCandidate(noteID, cs, model.TypeIdea, u.Index, u.Content)
	c.Signal = max(u.Score, conf)
	c.Confidence = conf
	c.Intent = model.IntentScores{NewWorkstream: conf}
	c.Provenance.BSignal = true
	c.EvidenceSpans = []model.EvidenceSpan{span(u)}
	if Vague(title) {
		title = groundedFallback(model.TypeIdea, "", u.Content)
	}
	c.Title = Prefix(model.TypeIdea, title, u.Content)
	c.Payload = payload(model.TypeIdea, u.Content, c.EvidenceSpans)
	return c
}

// sectionLevel builds the section-wide candidate anchored at the strongest
// unit for the section's type. Supporting units that anchor their own
// candidates are left out of its evidence.
func (s *Synthesizer) sectionLevel(noteID string, cs *model.ClassifiedSection, anchored map[int]bool) *model.Candidate {
	anchor, ok := pickAnchor(cs, s.th.TAction)
	if !ok {
		return nil
	}
	typ := cs.SuggestedType
	intent := cs.Intent
	if arbitrate.PlanSignal(anchor.Content) {
		typ = model.TypeProjectUpdate
		intent.Raise(model.IntentPlanChange, anchor.Score)
	}

	spans := []model.EvidenceSpan{span(anchor)}
	for _, u := range cs.Units {
		if len(spans) > maxSupportingUnits {
			break
		}
		if u.Index == anchor.Index || u.IsHeading || anchored[u.Index] || IsProcessNoise(u.Text) {
			continue
		}
		if !classify.IsActionableUnit(u, s.th.TAction) || arbitrate.Candidate(cs.SuggestedType, u) != typ {
			continue
		}
		spans = append(spans, span(u))
	}

	c := newCandidate(noteID, cs, typ, anchor.Index, anchor.Content)
	c.Provenance.SectionLevel = true
	c.FromActionableSection = true
	c.Signal = cs.ActionableSignal
	c.Confidence = cs.ActionableSignal
	c.Intent = intent
	c.EvidenceSpans = spans
	c.Title = s.title(typ, anchor.Content, spans, cs)
	c.Payload = payload(typ, anchor.Content, spans)
	if rules.DemandAmplifier.Any(anchor.Content) || rules.FeatureDemand.Any(anchor.Content) {
		c.Provenance.BSignal = true
	}
	if explicitAsk(anchor) {
		c.Provenance.ExplicitAsk = true
	}
	return c
}

// pickAnchor selects the strongest unit whose intent matches the section
// type, then any actionable unit, then the strongest scored unit.
func pickAnchor(cs *model.ClassifiedSection, tAction float64) (model.Unit, bool) {
	want := model.IntentNewWorkstream
	if cs.SuggestedType == model.TypeProjectUpdate {
		want = model.IntentPlanChange
	}
	pick := func(ok func(model.Unit) bool) (model.Unit, bool) {
		var best model.Unit
		found := false
		for _, u := range cs.Units {
			if u.IsHeading || IsProcessNoise(u.Text) || !ok(u) {
				continue
			}
			if !found || u.Score > best.Score {
				best, found = u, true
			}
		}
		return best, found
	}
	if u, ok := pick(func(u model.Unit) bool { return u.Intent == want && u.Score > 0 }); ok {
		return u, true
	}
	if u, ok := pick(func(u model.Unit) bool { return classify.IsActionableUnit(u, tAction) }); ok {
		return u, true
	}
	return pick(func(u model.Unit) bool { return u.Score > 0 })
}

// concept builds the single idea for a strategy section from its heading
// and bullets.
func (s *Synthesizer) concept(noteID string, cs *model.ClassifiedSection) *model.Candidate {
	sec := cs.Section
	spans, bullets := bulletEvidence(cs)
	if len(spans) == 0 {
		return nil
	}
	c := newCandidate(noteID, cs, model.TypeIdea, -1, sec.HeadingText)
	c.Provenance.HeadingDerived = true
	c.Provenance.SectionLevel = true
	c.FromActionableSection = true
	c.Signal = cs.ActionableSignal
	c.Confidence = cs.ActionableSignal
	c.Intent = cs.Intent
	c.Intent.Raise(model.IntentNewWorkstream, cs.ActionableSignal)
	c.EvidenceSpans = spans
	c.Title = Prefix(model.TypeIdea, CleanTitle(sec.HeadingText), sec.HeadingText)
	c.Payload = model.Payload{
		Description: sec.HeadingText + ": " + strings.Join(bullets, "; "),
		Bullets:     bullets,
	}
	return c
}

// structural builds an implicit idea for a non-actionable section with a
// substantive bullet list under a non-operational heading.
func (s *Synthesizer) structural(noteID string, cs *model.ClassifiedSection) *model.Candidate {
	sec := cs.Section
	if !sec.HasHeading() || sec.HeadingLevel > bypassMaxHeadingLevel {
		return nil
	}
	if sec.Features.ListItemCount < bypassMinBullets || sec.Features.CharCount < bypassMinChars {
		return nil
	}
	if rules.OperationalHeading.Any(sec.HeadingText) || cs.OutOfScopeSignal >= s.th.TOutOfScope {
		return nil
	}
	spans, bullets := bulletEvidence(cs)
	if len(spans) < bypassMinBullets {
		return nil
	}
	c := newCandidate(noteID, cs, model.TypeIdea, -1, sec.HeadingText)
	c.Provenance.HeadingDerived = true
	c.Provenance.StructuralBypass = true
	c.Signal = model.ImplicitIdeaSignal
	c.Confidence = bypassConfidence
	c.EvidenceSpans = spans
	c.Title = Prefix(model.TypeIdea, CleanTitle(sec.HeadingText), sec.HeadingText)
	c.Payload = model.Payload{
		Description: sec.HeadingText + ": " + strings.Join(bullets, "; "),
		Bullets:     bullets,
	}
	return c
}

// bulletEvidence collects non-noise bullet units.
func bulletEvidence(cs *model.ClassifiedSection) ([]model.EvidenceSpan, []string) {
	var spans []model.EvidenceSpan
	var bullets []string
	for _, u := range cs.Units {
		if !u.IsBullet || IsProcessNoise(u.Text) {
			continue
		}
		spans = append(spans, span(u))
		bullets = append(bullets, strings.TrimRight(u.Content, "."))
	}
	return spans, bullets
}

func (s *Synthesizer) title(typ model.SuggestionType, anchor string, spans []model.EvidenceSpan, cs *model.ClassifiedSection) string {
	t, ok := DemandTitle(anchor)
	if !ok || typ == model.TypeProjectUpdate {
		t = CleanTitle(anchor)
	}
	if Vague(t) {
		evidence := []string{anchor}
		for _, sp := range spans {
			evidence = append(evidence, sp.Text)
		}
		if cs.Section.HasHeading() {
			evidence = append(evidence, cs.Section.HeadingText)
		}
		t = groundedFallback(typ, arbitrate.DeltaPhrase(anchor), evidence...)
	}
	return Prefix(typ, t, anchor)
}

func payload(typ model.SuggestionType, anchor string, spans []model.EvidenceSpan) model.Payload {
	parts := make([]string, 0, len(spans))
	for _, sp := range spans {
		parts = append(parts, classify.CleanContent(stripMarker(sp.Text)))
	}
	p := model.Payload{Description: strings.Join(parts, " ")}
	if typ == model.TypeProjectUpdate {
		p.Delta = arbitrate.DeltaPhrase(anchor)
		if p.Delta == "" {
			p.Delta = arbitrate.DeltaPhrase(p.Description)
		}
	} else if len(parts) > 1 {
		p.Bullets = parts
	}
	return p
}

func newCandidate(noteID string, cs *model.ClassifiedSection, typ model.SuggestionType, anchor int, anchorText string) *model.Candidate {
	return &model.Candidate{
		Suggestion: model.Suggestion{
			NoteID:    noteID,
			SectionID: cs.Section.ID,
			Type:      typ,
		},
		Section:     cs,
		AnchorIndex: anchor,
		AnchorText:  anchorText,
	}
}

func span(u model.Unit) model.EvidenceSpan {
	return model.EvidenceSpan{StartLine: u.LineIndex, EndLine: u.LineIndex, Text: u.Text}
}

func stripMarker(s string) string {
	s = strings.TrimSpace(s)
	for _, p := range []string{"- ", "* ", "+ ", "• ", "> "} {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	if m := numberedMarker.FindStringIndex(s); m != nil {
		return strings.TrimSpace(s[m[1]:])
	}
	return s
}
