// Package pipeline runs note text through segmentation, classification,
// synthesis, validation, scoring and routing.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/notesuggest/internal/arbitrate"
	"github.com/rcliao/notesuggest/internal/classify"
	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/metrics"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/route"
	"github.com/rcliao/notesuggest/internal/score"
	"github.com/rcliao/notesuggest/internal/segment"
	"github.com/rcliao/notesuggest/internal/synth"
	"github.com/rcliao/notesuggest/internal/validate"
)

// Generator turns notes into suggestions. It holds configuration and
// collaborators only; every run gets its own id sequence and counters, so a
// Generator may be shared across goroutines.
type Generator struct {
	cfg      config.GeneratorConfig
	log      *zap.Logger
	provider classify.IntentProvider
	sim      route.Similarity
	metrics  *metrics.Metrics
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithIntentProvider sets the external intent classifier. It is consulted
// only when UseLLMClassifiers is enabled.
func WithIntentProvider(p classify.IntentProvider) Option {
	return func(g *Generator) { g.provider = p }
}

// WithSimilarity sets the routing similarity provider.
func WithSimilarity(s route.Similarity) Option {
	return func(g *Generator) { g.sim = s }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// New returns a Generator for cfg.
func New(cfg config.GeneratorConfig, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	return g
}

// run is the per-invocation state of one Generate call.
type run struct {
	g     *Generator
	seq   *model.Sequence
	debug *model.GeneratorDebugInfo
}

func (r *run) drop(stage model.Stage, reason model.DropReason, sectionID, title string) {
	r.debug.Drops = append(r.debug.Drops, model.DropRecord{
		Stage:     stage,
		Reason:    reason,
		SectionID: sectionID,
		Title:     title,
	})
	r.g.log.Debug("dropped",
		zap.String("stage", string(stage)),
		zap.String("reason", string(reason)),
		zap.String("section", sectionID),
		zap.String("title", title))
}

func (r *run) dropAll(stage model.Stage, reason model.DropReason, cands []*model.Candidate) {
	for _, c := range cands {
		r.drop(stage, reason, c.SectionID, c.Title)
	}
}

// Generate runs the pipeline over one note. It never fails: malformed input
// yields zero suggestions, and external classifier or similarity failures
// fall back to the rule-based path.
func (g *Generator) Generate(ctx context.Context, note model.NoteInput, initiatives []model.InitiativeSnapshot) model.GeneratorResult {
	start := time.Now()
	r := &run{
		g:     g,
		seq:   model.NewSequence(),
		debug: &model.GeneratorDebugInfo{ValidatorDrops: map[string]int{}},
	}
	th := g.cfg.Thresholds

	sections := segment.Segment(r.seq, note.NoteID, note.RawText)
	r.debug.SectionCount = len(sections)
	if len(sections) == 0 && strings.TrimSpace(note.RawText) != "" {
		r.drop(model.StageSegmentation, model.DropSegmentation, "", "")
	}

	classified := g.classifier().Classify(ctx, sections)
	r.debug.LLMFallbacks = classified.Fallbacks
	for _, cs := range classified.Sections {
		cs.SuggestedType, cs.StrategyOverride = arbitrate.Section(cs)
		if cs.IsActionable {
			r.debug.ActionableSectionCount++
		}
		if cs.IsPlanChange() {
			r.debug.PlanChangeSectionCount++
		}
	}

	cands := r.synthesize(classified.Sections)
	r.debug.CandidatesSynthesized = len(cands)

	cands, noisy := synth.SuppressProcessNoise(cands)
	r.dropAll(model.StageSynthesis, model.DropProcessNoise, noisy)
	cands, dups := synth.Dedupe(cands)
	r.dropAll(model.StageSynthesis, model.DropDuplicate, dups)
	synthesized := cands

	kept, rejected := validate.New(th).Run(cands)
	for _, rej := range rejected {
		r.debug.ValidatorDrops[rej.Validator]++
		r.drop(model.StageValidation, rej.Reason, rej.Candidate.SectionID, rej.Candidate.Title)
	}
	kept = r.guardPlanChanges(classified.Sections, kept, synthesized)
	r.debug.CandidatesPostValidation = len(kept)

	scorer := score.New(th)
	scored := kept[:0:0]
	for _, c := range kept {
		scorer.Score(c)
		if !scorer.Gate(c) {
			r.drop(model.StageScoring, model.DropBelowThreshold, c.SectionID, c.Title)
			continue
		}
		scored = append(scored, c)
	}
	r.debug.CandidatesPostScoring = len(scored)

	router := route.New(th, route.WithSimilarity(g.sim), route.WithLogger(g.log))
	for _, c := range scored {
		c.Routing = router.Route(ctx, c, initiatives)
		if c.Type == model.TypeProjectUpdate && !c.Routing.CreateNew {
			c.Action = model.ActionComment
		}
		c.SuggestionKey = route.SuggestionKey(note.NoteID, c.Type, c.Section.Section.HeadingText, c.AnchorText)
	}

	order(scored)
	emitted := r.limit(scored)

	out := make([]model.Suggestion, 0, len(emitted))
	for _, c := range emitted {
		c.ID = r.seq.Next("sug")
		out = append(out, c.Suggestion)
	}
	r.debug.PlanChangeEmitted = planChangeEmitted(classified.Sections, out)

	g.metrics.ObserveRun(out, r.debug, time.Since(start))
	g.log.Info("generated suggestions",
		zap.String("note", note.NoteID),
		zap.Int("sections", r.debug.SectionCount),
		zap.Int("actionable", r.debug.ActionableSectionCount),
		zap.Int("synthesized", r.debug.CandidatesSynthesized),
		zap.Int("validated", r.debug.CandidatesPostValidation),
		zap.Int("scored", r.debug.CandidatesPostScoring),
		zap.Int("emitted", len(out)),
		zap.Int("llm_fallbacks", r.debug.LLMFallbacks))

	res := model.GeneratorResult{Suggestions: out}
	if g.cfg.EnableDebug {
		for _, cs := range classified.Sections {
			r.debug.Sections = append(r.debug.Sections, *cs)
		}
		res.Debug = r.debug
	}
	return res
}

func (g *Generator) classifier() *classify.Classifier {
	opts := []classify.Option{classify.WithLogger(g.log)}
	if g.cfg.UseLLMClassifiers && g.provider != nil {
		timeout := time.Duration(g.cfg.LLM.TimeoutMS) * time.Millisecond
		opts = append(opts, classify.WithProvider(g.provider, timeout, g.cfg.LLM.BlendWeight))
	}
	return classify.New(g.cfg.Thresholds, opts...)
}

// synthesize builds candidates per section. Non-actionable sections only
// reach synthesis through the structural and demand bypass.
func (r *run) synthesize(sections []*model.ClassifiedSection) []*model.Candidate {
	s := synth.New(r.g.cfg.Thresholds, r.g.log)
	var out []*model.Candidate
	for _, cs := range sections {
		if cs.IsActionable {
			got := s.Actionable(cs.Section.NoteID, cs)
			if len(got) == 0 {
				r.drop(model.StageSynthesis, model.DropTypeNonActionable, cs.Section.ID, cs.Section.HeadingText)
			}
			out = append(out, got...)
			continue
		}
		got := s.Bypass(cs.Section.NoteID, cs)
		if len(got) == 0 {
			r.drop(model.StageClassification, model.DropNotActionable, cs.Section.ID, cs.Section.HeadingText)
		}
		out = append(out, got...)
	}
	return out
}

// guardPlanChanges keeps at least one project_update per plan_change
// section. A section whose updates were all rejected by validators gets its
// strongest synthesized update back, flagged for clarification. Sections
// decided by the strategy override, or whose updates were suppressed as
// process noise, are exempt.
func (r *run) guardPlanChanges(sections []*model.ClassifiedSection, kept, synthesized []*model.Candidate) []*model.Candidate {
	for _, cs := range sections {
		if !cs.IsPlanChange() || cs.StrategyOverride {
			continue
		}
		if hasUpdate(kept, cs.Section.ID) {
			continue
		}
		c := restorable(synthesized, cs.Section.ID)
		if c == nil {
			r.g.log.Debug("plan change section has no update to restore",
				zap.String("section", cs.Section.ID))
			continue
		}
		c.NeedsClarification = true
		c.ClarificationReasons = append(c.ClarificationReasons, model.ReasonValidatorRejected)
		r.g.log.Debug("restored plan change update",
			zap.String("section", cs.Section.ID), zap.String("title", c.Title))
		kept = append(kept, c)
	}
	return kept
}

func hasUpdate(cands []*model.Candidate, sectionID string) bool {
	for _, c := range cands {
		if c.SectionID == sectionID && c.Type == model.TypeProjectUpdate {
			return true
		}
	}
	return false
}

// restorable returns the section-level update for the section, else its
// first update. Updates whose evidence is not in the note are never restored.
func restorable(cands []*model.Candidate, sectionID string) *model.Candidate {
	var first *model.Candidate
	for _, c := range cands {
		if c.SectionID != sectionID || c.Type != model.TypeProjectUpdate || ungrounded(c) {
			continue
		}
		if c.Provenance.SectionLevel {
			return c
		}
		if first == nil {
			first = c
		}
	}
	return first
}

func ungrounded(c *model.Candidate) bool {
	for _, v := range c.Validation {
		if !v.Passed && v.Reason == string(model.DropV3Ungrounded) {
			return true
		}
	}
	return false
}

// order puts project_update before idea, then sorts by ranking descending.
// The sort is stable so synthesis order breaks ties.
func order(cands []*model.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if (a.Type == model.TypeProjectUpdate) != (b.Type == model.TypeProjectUpdate) {
			return a.Type == model.TypeProjectUpdate
		}
		return a.Scores.Ranking > b.Scores.Ranking
	})
}

// limit applies max_suggestions. Updates are never cut; ideas fill what is
// left of the budget.
func (r *run) limit(cands []*model.Candidate) []*model.Candidate {
	maxN := r.g.cfg.MaxSuggestions
	if maxN <= 0 {
		return cands
	}
	updates := 0
	for _, c := range cands {
		if c.Type == model.TypeProjectUpdate {
			updates++
		}
	}
	room := max(maxN-updates, 0)
	out := cands[:0:0]
	for _, c := range cands {
		if c.Type != model.TypeProjectUpdate {
			if room == 0 {
				r.drop(model.StageEmit, model.DropMaxSuggestions, c.SectionID, c.Title)
				continue
			}
			room--
		}
		out = append(out, c)
	}
	return out
}

// planChangeEmitted reports whether every guarded plan_change section
// produced at least one project_update.
func planChangeEmitted(sections []*model.ClassifiedSection, out []model.Suggestion) bool {
	for _, cs := range sections {
		if !cs.IsPlanChange() || cs.StrategyOverride {
			continue
		}
		found := false
		for _, s := range out {
			if s.SectionID == cs.Section.ID && s.Type == model.TypeProjectUpdate {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
