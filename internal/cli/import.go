package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/notesuggest/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import initiatives and decisions",
		Long:  "Import initiatives and decisions from a file or stdin. Expects the JSON or YAML produced by export.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, _ := readInput(args)

	snap, err := decodeSnapshot([]byte(data))
	if err != nil {
		exitErr("parse snapshot", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), snap)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}

// decodeSnapshot accepts JSON, or YAML using the same keys.
func decodeSnapshot(data []byte) (store.Snapshot, error) {
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err == nil {
		return snap, nil
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return snap, fmt.Errorf("neither json nor yaml: %w", err)
	}
	b, err := json.Marshal(generic)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}
