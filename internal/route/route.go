// Package route attaches suggestions to existing initiatives.
package route

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/rules"
	"github.com/rcliao/notesuggest/internal/synth"
)

const minTokenLen = 4

// keyNamespace scopes suggestion keys.
var keyNamespace = uuid.MustParse("6f1c9a52-7d4e-5b8a-9c3e-2a1f0d7b4e61")

// Similarity scores two texts in [0,1]. Embedding providers implement it.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Router picks the best-matching initiative for a candidate.
type Router struct {
	th  config.ThresholdConfig
	sim Similarity
	log *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithSimilarity replaces token similarity with s. Errors fall back to
// token similarity for that comparison.
func WithSimilarity(s Similarity) Option {
	return func(r *Router) { r.sim = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.log = l }
}

// New returns a Router.
func New(th config.ThresholdConfig, opts ...Option) *Router {
	r := &Router{th: th, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Route returns the attach-or-create decision. The highest-similarity
// initiative wins, the earliest on ties; it is attached only at or above
// TAttach.
func (r *Router) Route(ctx context.Context, c *model.Candidate, initiatives []model.InitiativeSnapshot) model.Routing {
	if len(initiatives) == 0 {
		return model.Routing{CreateNew: true}
	}
	text := synth.Unprefixed(c.Title) + " " + c.Payload.Description
	best, bestID := -1.0, ""
	for _, in := range initiatives {
		s := r.similarity(ctx, text, InitiativeText(in))
		if s > best {
			best, bestID = s, in.ID
		}
	}
	if best >= r.th.TAttach {
		return model.Routing{InitiativeID: bestID, Similarity: best}
	}
	return model.Routing{Similarity: max(best, 0), CreateNew: true}
}

func (r *Router) similarity(ctx context.Context, a, b string) float64 {
	if r.sim != nil {
		s, err := r.sim.Similarity(ctx, a, b)
		if err == nil {
			return s
		}
		r.log.Warn("similarity provider failed, using token similarity", zap.Error(err))
	}
	return TokenSimilarity(a, b)
}

// InitiativeText is the text an initiative is matched on.
func InitiativeText(in model.InitiativeSnapshot) string {
	return strings.Join(append([]string{in.Title, in.Description}, in.Tags...), " ")
}

// TokenSimilarity is cosine similarity over term frequencies of words
// longer than three characters.
func TokenSimilarity(a, b string) float64 {
	ta, tb := termFreq(a), termFreq(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	var dot, na, nb float64
	for w, x := range ta {
		na += x * x
		dot += x * tb[w]
	}
	for _, y := range tb {
		nb += y * y
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func termFreq(s string) map[string]float64 {
	tf := map[string]float64{}
	for _, w := range rules.Words(s) {
		if len(w) >= minTokenLen {
			tf[w]++
		}
	}
	return tf
}

// SuggestionKey is a stable identifier for a suggestion across runs: the
// same note, type and anchor text always produce the same key.
func SuggestionKey(noteID string, typ model.SuggestionType, sectionHeading, anchor string) string {
	norm := strings.Join(rules.Words(anchor), " ")
	name := strings.Join([]string{noteID, string(typ), strings.ToLower(sectionHeading), norm}, "\x00")
	return uuid.NewSHA1(keyNamespace, []byte(name)).String()
}
