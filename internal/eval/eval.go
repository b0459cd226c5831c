// Package eval runs the pipeline over a corpus of annotated notes and
// reports which cases meet their expectations.
package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/pipeline"
)

// Case is one annotated note. Empty expectations are not checked.
type Case struct {
	ID                  string                     `toml:"id"`
	Text                string                     `toml:"text"`
	ExpectTypes         []model.SuggestionType     `toml:"expect_types"`
	ExpectTitleContains []string                   `toml:"expect_title_contains"`
	ForbidText          []string                   `toml:"forbid_text"`
	Initiatives         []model.InitiativeSnapshot `toml:"initiative"`
}

// Corpus is a set of cases, decoded from `[[case]]` tables.
type Corpus struct {
	Cases []Case `toml:"case"`
}

// LoadCorpus reads and validates a TOML corpus from fs.
func LoadCorpus(fs afero.Fs, path string) (Corpus, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Corpus{}, fmt.Errorf("read corpus: %w", err)
	}
	return ParseCorpus(data)
}

// ParseCorpus decodes a TOML corpus.
func ParseCorpus(data []byte) (Corpus, error) {
	var c Corpus
	if _, err := toml.Decode(string(data), &c); err != nil {
		return Corpus{}, fmt.Errorf("decode corpus: %w", err)
	}
	seen := map[string]bool{}
	for i, cs := range c.Cases {
		if cs.ID == "" {
			return Corpus{}, fmt.Errorf("case %d: id is required", i)
		}
		if seen[cs.ID] {
			return Corpus{}, fmt.Errorf("case %q: duplicate id", cs.ID)
		}
		seen[cs.ID] = true
		for _, typ := range cs.ExpectTypes {
			if typ != model.TypeIdea && typ != model.TypeProjectUpdate {
				return Corpus{}, fmt.Errorf("case %q: unknown type %q", cs.ID, typ)
			}
		}
	}
	return c, nil
}

// CaseResult is the outcome of one case.
type CaseResult struct {
	ID          string             `json:"id"`
	Passed      bool               `json:"passed"`
	Failures    []string           `json:"failures,omitempty"`
	Suggestions []model.Suggestion `json:"suggestions"`
}

// Report summarizes a corpus run.
type Report struct {
	Cases       []CaseResult                 `json:"cases"`
	Total       int                          `json:"total"`
	Passed      int                          `json:"passed"`
	Failed      int                          `json:"failed"`
	Suggestions int                          `json:"suggestions"`
	ByType      map[model.SuggestionType]int `json:"by_type"`
	Drops       map[model.DropReason]int     `json:"drops,omitempty"`
}

// Runner evaluates cases with a shared Generator. Cases share no state, so
// they run concurrently up to the configured limit.
type Runner struct {
	gen         *pipeline.Generator
	concurrency int
	log         *zap.Logger
}

// NewRunner returns a Runner. A concurrency below 1 runs cases one at a
// time.
func NewRunner(gen *pipeline.Generator, concurrency int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{gen: gen, concurrency: max(concurrency, 1), log: logger}
}

// Run evaluates every case in corpus order. It stops early only when ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context, corpus Corpus) (Report, error) {
	results := make([]CaseResult, len(corpus.Cases))
	drops := make([][]model.DropRecord, len(corpus.Cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, cs := range corpus.Cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := r.gen.Generate(ctx, model.NoteInput{NoteID: cs.ID, RawText: cs.Text, Source: "eval"}, cs.Initiatives)
			failures := Check(cs, res)
			results[i] = CaseResult{
				ID:          cs.ID,
				Passed:      len(failures) == 0,
				Failures:    failures,
				Suggestions: res.Suggestions,
			}
			if res.Debug != nil {
				drops[i] = res.Debug.Drops
			}
			r.log.Debug("evaluated case",
				zap.String("case", cs.ID),
				zap.Bool("passed", len(failures) == 0),
				zap.Int("suggestions", len(res.Suggestions)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("evaluate corpus: %w", err)
	}

	rep := Report{
		Cases:  results,
		Total:  len(results),
		ByType: map[model.SuggestionType]int{},
		Drops:  map[model.DropReason]int{},
	}
	for i, res := range results {
		if res.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
		rep.Suggestions += len(res.Suggestions)
		for _, s := range res.Suggestions {
			rep.ByType[s.Type]++
		}
		for _, d := range drops[i] {
			rep.Drops[d.Reason]++
		}
	}
	return rep, nil
}

// Check compares a result against a case's expectations and returns one
// message per failed expectation.
func Check(cs Case, res model.GeneratorResult) []string {
	var failures []string
	if cs.ExpectTypes != nil {
		var got []model.SuggestionType
		for _, s := range res.Suggestions {
			got = append(got, s.Type)
		}
		if !equalTypes(got, cs.ExpectTypes) {
			failures = append(failures, fmt.Sprintf("types: got %v, want %v", got, cs.ExpectTypes))
		}
	}
	for _, want := range cs.ExpectTitleContains {
		found := false
		for _, s := range res.Suggestions {
			if strings.Contains(strings.ToLower(s.Title), strings.ToLower(want)) {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, fmt.Sprintf("no title contains %q", want))
		}
	}
	for _, bad := range cs.ForbidText {
		lower := strings.ToLower(bad)
		for _, s := range res.Suggestions {
			if strings.Contains(strings.ToLower(s.Title), lower) ||
				strings.Contains(strings.ToLower(s.Payload.Description), lower) {
				failures = append(failures, fmt.Sprintf("%s contains forbidden text %q", s.ID, bad))
			}
		}
	}
	return failures
}

func equalTypes(a, b []model.SuggestionType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
