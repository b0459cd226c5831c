// Package validate runs the V1-V4 candidate validators.
package validate

import (
	"regexp"
	"strings"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
	"github.com/rcliao/notesuggest/internal/synth"
)

// Validator names.
const (
	V1Informational = "v1_informational"
	V2Generic       = "v2_generic"
	V3Evidence      = "v3_evidence"
	V4HeadingOnly   = "v4_heading_only"
)

const (
	genericTitleRatio  = 0.7
	minDomainTerms     = 2
	groundingPrefixLen = 50
	minWordLen         = 3
)

var bulletMarker = regexp.MustCompile(`^\s*(?:[-*+•]|\d+(?:\.\d+)*[.)])\s+`)

// Rejection is a candidate dropped by a validator.
type Rejection struct {
	Candidate *model.Candidate
	Validator string
	Reason    model.DropReason
}

// Validator applies the validator chain.
type Validator struct {
	th config.ThresholdConfig
}

// New returns a Validator.
func New(th config.ThresholdConfig) *Validator {
	return &Validator{th: th}
}

type check func(*model.Candidate) (model.DropReason, string)

// Run validates candidates in order. The first failing validator drops the
// candidate; outcomes are recorded on every candidate.
func (v *Validator) Run(cands []*model.Candidate) (kept []*model.Candidate, rejected []Rejection) {
	chain := []struct {
		name string
		fn   check
	}{
		{V1Informational, v.informational},
		{V2Generic, v.generic},
		{V3Evidence, v.evidence},
		{V4HeadingOnly, v.headingOnly},
	}
	for _, c := range cands {
		ok := true
		for _, step := range chain {
			reason, note := step.fn(c)
			c.Validation = append(c.Validation, model.ValidationOutcome{
				Validator: step.name,
				Passed:    reason == "",
				Reason:    firstNonEmpty(string(reason), note),
			})
			if reason != "" {
				rejected = append(rejected, Rejection{Candidate: c, Validator: step.name, Reason: reason})
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c)
		}
	}
	return kept, rejected
}

// informational never drops; it notes when a candidate's type differs from
// its section's arbitrated type.
func (v *Validator) informational(c *model.Candidate) (model.DropReason, string) {
	if c.Section != nil && c.Type != c.Section.SuggestedType {
		return "", "candidate type differs from section type"
	}
	return "", ""
}

// generic drops candidates dominated by generic business vocabulary.
func (v *Validator) generic(c *model.Candidate) (model.DropReason, string) {
	title := synth.Unprefixed(c.Title)
	words := rules.ContentWords(title+" "+c.Payload.Description, minWordLen)
	if len(words) > 0 {
		ratio := float64(rules.GenericVocabulary.Count(words)) / float64(len(words))
		if ratio > v.th.TGeneric && rules.DomainTerms(rawText(c)) < minDomainTerms {
			return model.DropV2GenericContent, ""
		}
	}
	tw := rules.ContentWords(title, minWordLen)
	if len(tw) == 0 {
		return model.DropV2GenericTitle, ""
	}
	if float64(rules.GenericVocabulary.Count(tw))/float64(len(tw)) > genericTitleRatio {
		return model.DropV2GenericTitle, ""
	}
	return "", ""
}

// evidence enforces grounding, then structure. Plan-change sections skip
// the structural checks; feature-request style candidates get a relaxed
// length floor but must carry a request pattern.
func (v *Validator) evidence(c *model.Candidate) (model.DropReason, string) {
	if len(c.EvidenceSpans) == 0 {
		return model.DropV3NoEvidence, ""
	}
	raw := rawText(c)
	total := 0
	bullet := false
	var texts []string
	for _, sp := range c.EvidenceSpans {
		if !Grounded(sp.Text, raw) {
			return model.DropV3Ungrounded, ""
		}
		total += len(strings.TrimSpace(sp.Text))
		bullet = bullet || bulletMarker.MatchString(sp.Text)
		texts = append(texts, sp.Text)
	}
	if c.Section != nil && c.Section.IsPlanChange() {
		return "", "plan_change section"
	}
	if lightweight(c) {
		if total < v.th.MinEvidenceChars/2 {
			return model.DropV3TooShort, ""
		}
		joined := strings.Join(texts, " ")
		if !rules.ExplicitAsk.Any(joined) && !rules.FeatureDemand.Any(joined) && !rules.Positive.Any(joined) && !rules.TaskSyntax.Any(joined) {
			return model.DropV3MissingRequest, ""
		}
		return "", ""
	}
	if !bullet && total < v.th.MinEvidenceChars {
		return model.DropV3TooShort, ""
	}
	return "", ""
}

// headingOnly drops heading-derived ideas with no body evidence.
func (v *Validator) headingOnly(c *model.Candidate) (model.DropReason, string) {
	if c.Type != model.TypeIdea || !c.Provenance.HeadingDerived {
		return "", ""
	}
	if c.Provenance.ExplicitAsk || c.Provenance.StructuralBypass {
		return "", ""
	}
	heading := -1
	if c.Section != nil && c.Section.Section.HeadingLine != nil {
		heading = c.Section.Section.HeadingLine.Index
	}
	for _, sp := range c.EvidenceSpans {
		if sp.StartLine != heading {
			return "", ""
		}
	}
	return model.DropV4HeadingOnly, ""
}

// Grounded reports whether span appears verbatim in raw, or, for long spans,
// whether its first 50 characters do.
func Grounded(span, raw string) bool {
	span = strings.TrimSpace(span)
	if span == "" {
		return false
	}
	if strings.Contains(raw, span) {
		return true
	}
	return len(span) > groundingPrefixLen && strings.Contains(raw, span[:groundingPrefixLen])
}

func lightweight(c *model.Candidate) bool {
	p := c.Provenance
	return (p.ExplicitAsk || p.BSignal) && !p.HeadingDerived && !p.StructuralBypass
}

func rawText(c *model.Candidate) string {
	if c.Section == nil || c.Section.Section == nil {
		return ""
	}
	return c.Section.Section.RawText
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
