package synth

import (
	"regexp"
	"strings"

	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
)

var numberedMarker = regexp.MustCompile(`^\d+(?:\.\d+)*[.)]?\s+`)

// IsProcessNoise reports ownership, sign-off or handover chatter that is not
// an explicit assignment.
func IsProcessNoise(text string) bool {
	return rules.ProcessNoise.Any(text) && !rules.ProcessAllow.Any(text)
}

// SuppressProcessNoise drops candidates anchored on process noise or whose
// title or description carries it.
func SuppressProcessNoise(cands []*model.Candidate) (kept, dropped []*model.Candidate) {
	for _, c := range cands {
		if (c.AnchorIndex >= 0 && IsProcessNoise(c.AnchorText)) ||
			IsProcessNoise(c.Title) || IsProcessNoise(c.Payload.Description) {
			dropped = append(dropped, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

// Dedupe collapses candidates anchored on the same unit with the same type,
// and candidates of the same type with the same title. The most confident
// candidate survives and inherits the provenance of the ones it absorbs.
func Dedupe(cands []*model.Candidate) (kept, dropped []*model.Candidate) {
	type anchorKey struct {
		section string
		typ     model.SuggestionType
		anchor  int
	}
	type titleKey struct {
		typ   model.SuggestionType
		title string
	}
	byAnchor := map[anchorKey]*model.Candidate{}
	byTitle := map[titleKey]*model.Candidate{}

	for _, c := range cands {
		tk := titleKey{c.Type, strings.ToLower(Unprefixed(c.Title))}
		var prev *model.Candidate
		if c.AnchorIndex >= 0 {
			prev = byAnchor[anchorKey{c.SectionID, c.Type, c.AnchorIndex}]
		}
		if prev == nil {
			prev = byTitle[tk]
		}
		if prev == nil {
			if c.AnchorIndex >= 0 {
				byAnchor[anchorKey{c.SectionID, c.Type, c.AnchorIndex}] = c
			}
			byTitle[tk] = c
			kept = append(kept, c)
			continue
		}
		if c.Confidence > prev.Confidence {
			*prev, *c = *c, *prev
			if prev.AnchorIndex >= 0 {
				byAnchor[anchorKey{prev.SectionID, prev.Type, prev.AnchorIndex}] = prev
			}
			byTitle[titleKey{prev.Type, strings.ToLower(Unprefixed(prev.Title))}] = prev
		}
		mergeProvenance(&prev.Provenance, c.Provenance)
		dropped = append(dropped, c)
	}
	return kept, dropped
}

func mergeProvenance(dst *model.Provenance, src model.Provenance) {
	dst.HeadingDerived = dst.HeadingDerived || src.HeadingDerived
	dst.ExplicitAsk = dst.ExplicitAsk || src.ExplicitAsk
	dst.BSignal = dst.BSignal || src.BSignal
	dst.DenseParagraph = dst.DenseParagraph || src.DenseParagraph
	dst.StructuralBypass = dst.StructuralBypass || src.StructuralBypass
	dst.SectionLevel = dst.SectionLevel || src.SectionLevel
}
