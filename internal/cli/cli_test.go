package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/notesuggest/internal/model"
)

func TestDecodeSnapshot(t *testing.T) {
	jsonIn := `{"initiatives":[{"id":"init-1","title":"Product launch"}],
	"decisions":[{"note_id":"n1","suggestion_key":"k1","status":"dismissed"}]}`
	yamlIn := `
initiatives:
  - id: init-1
    title: Product launch
decisions:
  - note_id: n1
    suggestion_key: k1
    status: dismissed
`
	for name, in := range map[string]string{"json": jsonIn, "yaml": yamlIn} {
		t.Run(name, func(t *testing.T) {
			snap, err := decodeSnapshot([]byte(in))
			require.NoError(t, err)
			require.Len(t, snap.Initiatives, 1)
			assert.Equal(t, "Product launch", snap.Initiatives[0].Title)
			require.Len(t, snap.Decisions, 1)
			assert.Equal(t, model.DecisionDismissed, snap.Decisions[0].Status)
			assert.Equal(t, "k1", snap.Decisions[0].SuggestionKey)
		})
	}

	_, err := decodeSnapshot([]byte("initiatives: [unterminated"))
	assert.Error(t, err)
}

func TestDefaultNoteID(t *testing.T) {
	assert.Equal(t, "standup-2024-05-01", defaultNoteID("notes/standup-2024-05-01.md"))
	assert.Equal(t, "stdin", defaultNoteID(""))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"generate", "eval", "dismiss", "apply", "decisions", "initiative", "export", "import", "stats"}
	for _, name := range want {
		cmd, _, err := RootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, sub := range []string{"add", "list", "search", "rm"} {
		cmd, _, err := RootCmd.Find([]string{"initiative", sub})
		require.NoError(t, err, sub)
		assert.Equal(t, sub, cmd.Name())
	}
}
