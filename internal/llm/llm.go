// Package llm implements an intent provider backed by an OpenAI-compatible
// chat completion API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
)

const systemPrompt = `You classify a section of meeting notes. Reply with a single JSON object
with numeric scores in [0,1] for exactly these keys: plan_change, new_workstream,
status_informational, communication, research, calendar, micro_tasks.
plan_change: a change to an existing plan's timeline, scope or priority.
new_workstream: a request for new work, a feature or an initiative.
status_informational: progress reporting without a request.
communication, calendar, micro_tasks: messaging, scheduling and small admin chores.
research: exploration or investigation.`

// ErrEmptyResponse is returned when the completion has no content.
var ErrEmptyResponse = errors.New("llm: empty response")

// Completer sends a system and user message and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Classifier scores intent with a chat model.
type Classifier struct {
	completer Completer
	limiter   *rate.Limiter
}

// New returns a Classifier for cfg. Requests are limited to
// cfg.RequestsPerMinute.
func New(cfg config.LLMConfig) (*Classifier, error) {
	if cfg.Provider != "" && cfg.Provider != "openai" {
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return NewWithCompleter(&chatCompleter{client: client, model: cfg.Model}, cfg.RequestsPerMinute), nil
}

// NewWithCompleter returns a Classifier using c, limited to rpm requests per
// minute. A non-positive rpm disables limiting.
func NewWithCompleter(c Completer, rpm float64) *Classifier {
	lim := rate.NewLimiter(rate.Inf, 1)
	if rpm > 0 {
		lim = rate.NewLimiter(rate.Limit(rpm/60), 1)
	}
	return &Classifier{completer: c, limiter: lim}
}

// ClassifyIntent returns the model's intent vector for text.
func (c *Classifier) ClassifyIntent(ctx context.Context, text string) (model.IntentScores, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.IntentScores{}, fmt.Errorf("llm: rate limit: %w", err)
	}
	out, err := c.completer.Complete(ctx, systemPrompt, text)
	if err != nil {
		return model.IntentScores{}, fmt.Errorf("llm: completion: %w", err)
	}
	return ParseScores(out)
}

// ParseScores decodes a JSON intent object, tolerating surrounding prose or
// code fences. Scores are clamped to [0,1].
func ParseScores(s string) (model.IntentScores, error) {
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		if strings.TrimSpace(s) == "" {
			return model.IntentScores{}, ErrEmptyResponse
		}
		return model.IntentScores{}, fmt.Errorf("llm: no JSON object in response")
	}
	var raw map[string]float64
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil {
		return model.IntentScores{}, fmt.Errorf("llm: decode scores: %w", err)
	}
	var scores model.IntentScores
	for _, in := range model.IntentOrder {
		scores.Set(in, min(raw[string(in)], 1))
	}
	return scores, nil
}

type chatCompleter struct {
	client openai.Client
	model  string
}

func (c *chatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
