// Package score computes candidate confidence and applies the
// clarification gate.
package score

import (
	"strings"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
	"github.com/rcliao/notesuggest/internal/synth"
)

const (
	oosPenaltyWeight  = 0.5
	featureBoost      = 0.05
	shortPenalty      = 0.1
	shortSectionLines = 2

	marginWeight    = 0.3
	magnitudeWeight = 0.2

	hallucinationPenalty = 0.2
	coveragePenalty      = 0.1
	minCoverage          = 0.5
	minWordLen           = 3

	engineeringBoost    = 0.15
	implementationBoost = 0.10
	marketingPenalty    = 0.15
	maxRankingBoost     = 0.25
	maxRankingPenalty   = 0.15

	implicitActionabilityWeight = 0.5
	implicitTypeWeight          = 0.25
	implicitSynthesisWeight     = 0.25
)

// Scorer scores candidates against a threshold set.
type Scorer struct {
	th config.ThresholdConfig
}

// New returns a Scorer.
func New(th config.ThresholdConfig) *Scorer {
	return &Scorer{th: th}
}

// Score fills every score dimension on c.
func (s *Scorer) Score(c *model.Candidate) {
	sc := model.Scores{
		SectionActionability: SectionActionability(c),
		TypeChoiceConfidence: TypeChoice(c),
		SynthesisConfidence:  Synthesis(c),
	}
	if c.Signal == model.ImplicitIdeaSignal {
		sc.Overall = clamp(implicitActionabilityWeight*sc.SectionActionability +
			implicitTypeWeight*sc.TypeChoiceConfidence +
			implicitSynthesisWeight*sc.SynthesisConfidence)
	} else {
		sc.Overall = min(sc.SectionActionability, sc.TypeChoiceConfidence, sc.SynthesisConfidence)
	}
	sc.Ranking = sc.Overall + RankingDelta(c.AnchorText+" "+synth.Unprefixed(c.Title))
	c.Scores = sc
}

// Gate applies the clarification thresholds. A candidate below either
// threshold is kept with needs_clarification when it is a project_update or
// comes from an actionable section; otherwise it is dropped. It reports
// whether c survives.
func (s *Scorer) Gate(c *model.Candidate) bool {
	var reasons []model.ClarificationReason
	if c.Scores.SectionActionability < s.th.TSectionMin {
		reasons = append(reasons, model.ReasonLowActionability)
	}
	if c.Scores.Overall < s.th.TOverallMin {
		reasons = append(reasons, model.ReasonLowOverall)
	}
	if len(reasons) > 0 {
		if c.Type != model.TypeProjectUpdate && !c.FromActionableSection {
			return false
		}
		c.NeedsClarification = true
		c.ClarificationReasons = appendReasons(c.ClarificationReasons, reasons...)
	}
	c.IsHighConfidence = !c.NeedsClarification
	return true
}

// SectionActionability is the section signal net of out-of-scope, adjusted
// by structural features.
func SectionActionability(c *model.Candidate) float64 {
	v := c.Signal
	if c.Section == nil {
		return clamp(v)
	}
	v -= oosPenaltyWeight * c.Section.OutOfScopeSignal
	f := c.Section.Section.Features
	for _, on := range []bool{f.HasQuarter, f.HasVersion, f.HasLaunchKeyword} {
		if on {
			v += featureBoost
		}
	}
	if f.LineCount <= shortSectionLines {
		v -= shortPenalty
	}
	return clamp(v)
}

// TypeChoice rewards a clear margin between plan_change and
// new_workstream evidence in favor of the chosen type.
func TypeChoice(c *model.Candidate) float64 {
	pc, nw := c.Intent.PlanChange, c.Intent.NewWorkstream
	chosen, other := nw, pc
	if c.Type == model.TypeProjectUpdate {
		chosen, other = pc, nw
	}
	magnitude := min(max(chosen, other), 1)
	margin := 0.0
	if magnitude > 0 {
		margin = (chosen - other) / max(chosen, other)
	}
	return clamp(0.5 + marginWeight*margin + magnitudeWeight*magnitude)
}

// Synthesis measures how much of the title and description is grounded in
// the section. Invented owners or dates and thin evidence coverage cost
// confidence.
func Synthesis(c *model.Candidate) float64 {
	raw := ""
	if c.Section != nil {
		raw = c.Section.Section.RawText
	}
	section := rules.WordSet(raw)
	words := rules.ContentWords(synth.Unprefixed(c.Title)+" "+c.Payload.Description, minWordLen)
	v := 0.5
	if len(words) > 0 {
		hit := 0
		for _, w := range words {
			if section[w] {
				hit++
			}
		}
		v = float64(hit) / float64(len(words))
	}

	lowerRaw := strings.ToLower(raw)
	for _, m := range rules.OwnerRef.Rules[0].Pattern.FindAllStringSubmatch(c.Payload.Description, -1) {
		if !strings.Contains(lowerRaw, strings.ToLower(m[1])) {
			v -= hallucinationPenalty
		}
	}
	for _, d := range rules.DateRef.Rules[0].Pattern.FindAllString(c.Title+" "+c.Payload.Description, -1) {
		if !strings.Contains(lowerRaw, strings.ToLower(d)) {
			v -= hallucinationPenalty
		}
	}

	var ev []string
	for _, sp := range c.EvidenceSpans {
		ev = append(ev, sp.Text)
	}
	evidence := rules.WordSet(strings.Join(ev, " "))
	desc := rules.ContentWords(c.Payload.Description, minWordLen)
	if len(desc) > 0 {
		covered := 0
		for _, w := range desc {
			if evidence[w] {
				covered++
			}
		}
		if float64(covered)/float64(len(desc)) < minCoverage {
			v -= coveragePenalty
		}
	}
	return clamp(v)
}

// RankingDelta is the bounded ranking adjustment from the ranking
// vocabularies. It never affects gating.
func RankingDelta(text string) float64 {
	words := rules.Words(text)
	d := 0.0
	if rules.EngineeringVocabulary.AnyIn(words) {
		d += engineeringBoost
	}
	if rules.ImplementationVerbs.AnyIn(words) {
		d += implementationBoost
	}
	if rules.MarketingVocabulary.AnyIn(words) {
		d -= marketingPenalty
	}
	return min(max(d, -maxRankingPenalty), maxRankingBoost)
}

func appendReasons(have []model.ClarificationReason, add ...model.ClarificationReason) []model.ClarificationReason {
	for _, r := range add {
		dup := false
		for _, h := range have {
			if h == r {
				dup = true
				break
			}
		}
		if !dup {
			have = append(have, r)
		}
	}
	return have
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}
