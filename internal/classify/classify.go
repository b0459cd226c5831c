// Package classify scores section intent and decides actionability.
package classify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

const (
	shortSectionLines   = 2
	shortSectionPenalty = 0.15
	overrideMinSignal   = 0.8
	overrideMaxOOS      = 0.3
)

// IntentProvider returns an intent vector for a section of text. The LLM
// classifier implements it.
type IntentProvider interface {
	ClassifyIntent(ctx context.Context, text string) (model.IntentScores, error)
}

// Classifier scores sections with the rule tables and, optionally, an
// IntentProvider.
type Classifier struct {
	th       config.ThresholdConfig
	provider IntentProvider
	timeout  time.Duration
	blend    float64
	log      *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithProvider blends provider scores into the rule vector with weight blend.
// Calls that exceed timeout or fail fall back to the rule vector.
func WithProvider(p IntentProvider, timeout time.Duration, blend float64) Option {
	return func(c *Classifier) {
		c.provider = p
		c.timeout = timeout
		c.blend = blend
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) { c.log = l }
}

// New returns a Classifier.
func New(th config.ThresholdConfig, opts ...Option) *Classifier {
	c := &Classifier{th: th, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Result is the outcome of classifying a note's sections.
type Result struct {
	Sections  []*model.ClassifiedSection
	Fallbacks int
}

// Classify scores every section in order.
func (c *Classifier) Classify(ctx context.Context, sections []*model.Section) Result {
	var res Result
	for _, sec := range sections {
		cs := c.rules(sec)
		if c.provider != nil {
			if scores, err := c.augment(ctx, sec); err != nil {
				res.Fallbacks++
				c.log.Warn("intent provider failed, using rule scores",
					zap.String("section", sec.ID), zap.Error(err))
			} else {
				cs.Intent = cs.Intent.Blend(scores, c.blend)
				cs.LLMAugmented = true
			}
		}
		c.finalize(cs)
		res.Sections = append(res.Sections, cs)
	}
	return res
}

// rules builds the rule-based classification: the section vector is the
// element-wise max over unit vectors.
func (c *Classifier) rules(sec *model.Section) *model.ClassifiedSection {
	cs := &model.ClassifiedSection{Section: sec, Units: Units(sec)}
	for i := range cs.Units {
		u := &cs.Units[i]
		ScoreUnit(u)
		for _, in := range model.IntentOrder {
			cs.Intent.Raise(in, u.Scores.Get(in))
		}
	}
	return cs
}

func (c *Classifier) augment(ctx context.Context, sec *model.Section) (model.IntentScores, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.provider.ClassifyIntent(ctx, sec.RawText)
}

// finalize applies the explicit-ask override and the actionability gate.
func (c *Classifier) finalize(cs *model.ClassifiedSection) {
	if strongExplicitAsk(cs.Units) {
		for _, in := range []model.Intent{model.IntentCalendar, model.IntentCommunication, model.IntentMicroTasks} {
			if cs.Intent.Get(in) > overrideMaxOOS {
				cs.Intent.Set(in, overrideMaxOOS)
			}
		}
	}
	cs.Dominant = cs.Intent.Dominant()
	cs.ActionableSignal = cs.Intent.ActionableSignal()
	cs.OutOfScopeSignal = cs.Intent.OutOfScopeSignal()
	cs.IsActionable = Actionable(cs.Intent, cs.Section.Features.LineCount, c.th)
}

// strongExplicitAsk reports a non-hedged unit with an actionable score of at
// least 0.8. A unit that also matches an out-of-scope rule counts only when
// it names a domain term.
func strongExplicitAsk(units []model.Unit) bool {
	for _, u := range units {
		if u.Hedged || u.Scores.ActionableSignal() < overrideMinSignal {
			continue
		}
		if u.Scores.OutOfScopeSignal() > 0 && rules.DomainTerms(u.Content) == 0 {
			continue
		}
		return true
	}
	return false
}

// Actionable is the section gate. A plan_change dominant section is always
// actionable; otherwise the actionable signal must reach TAction, raised for
// very short sections, while out-of-scope stays strictly below TOutOfScope.
func Actionable(intent model.IntentScores, lineCount int, th config.ThresholdConfig) bool {
	if intent.Dominant() == model.IntentPlanChange {
		return true
	}
	need := th.TAction
	if lineCount <= shortSectionLines {
		need += shortSectionPenalty
	}
	return intent.ActionableSignal() >= need && intent.OutOfScopeSignal() < th.TOutOfScope
}
