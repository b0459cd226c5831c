package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/notesuggest/internal/config"
	"github.com/rcliao/notesuggest/internal/model"
)

type fakeCompleter struct {
	out   string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(context.Context, string, string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestClassifyIntent(t *testing.T) {
	f := &fakeCompleter{out: "```json\n{\"plan_change\": 0.9, \"new_workstream\": 0.2, \"calendar\": 1.7}\n```"}
	c := NewWithCompleter(f, 0)
	got, err := c.ClassifyIntent(context.Background(), "Beta slips 2 weeks")
	require.NoError(t, err)
	assert.Equal(t, model.IntentScores{PlanChange: 0.9, NewWorkstream: 0.2, Calendar: 1}, got)
	assert.Equal(t, 1, f.calls)
}

func TestClassifyIntent_Errors(t *testing.T) {
	_, err := NewWithCompleter(&fakeCompleter{err: errors.New("503")}, 0).ClassifyIntent(context.Background(), "x")
	assert.ErrorContains(t, err, "completion")

	_, err = NewWithCompleter(&fakeCompleter{out: ""}, 0).ClassifyIntent(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewWithCompleter(&fakeCompleter{out: "not json"}, 0).ClassifyIntent(context.Background(), "x")
	assert.Error(t, err)
}

func TestClassifyIntent_RateLimitHonorsContext(t *testing.T) {
	f := &fakeCompleter{out: `{"research": 0.5}`}
	c := NewWithCompleter(f, 1)
	_, err := c.ClassifyIntent(context.Background(), "x")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ClassifyIntent(ctx, "x")
	assert.ErrorContains(t, err, "rate limit")
	assert.Equal(t, 1, f.calls)
}

func TestParseScores_NegativeClamped(t *testing.T) {
	got, err := ParseScores(`{"micro_tasks": -3, "unknown": 1}`)
	require.NoError(t, err)
	assert.Equal(t, model.IntentScores{}, got)
}

func TestNew(t *testing.T) {
	c, err := New(config.LLMConfig{Model: "gpt-4o-mini", APIKey: "test", BaseURL: "http://127.0.0.1:1", RequestsPerMinute: 60})
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = New(config.LLMConfig{Provider: "bogus"})
	assert.Error(t, err)
}
