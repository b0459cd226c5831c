package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List recorded decisions",
		Run:   runDecisions,
	}

	cmd.Flags().StringP("note", "n", "", "Filter by note id")
	cmd.Flags().StringP("status", "s", "", "Filter by status: dismissed or applied")
	cmd.Flags().StringP("initiative", "i", "", "Filter by initiative id")
	cmd.Flags().IntP("limit", "l", 100, "Max results")

	RootCmd.AddCommand(cmd)
}

func runDecisions(cmd *cobra.Command, args []string) {
	note, _ := cmd.Flags().GetString("note")
	status, _ := cmd.Flags().GetString("status")
	initiative, _ := cmd.Flags().GetString("initiative")
	limit, _ := cmd.Flags().GetInt("limit")

	if status != "" && !model.ValidDecisionStatuses[model.DecisionStatus(status)] {
		exitErr("decisions", fmt.Errorf("invalid status %q (valid: dismissed, applied)", status))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	decisions, err := s.ListDecisions(cmd.Context(), store.ListDecisionsParams{
		NoteID:       note,
		Status:       model.DecisionStatus(status),
		InitiativeID: initiative,
		Limit:        limit,
	})
	if err != nil {
		exitErr("decisions", err)
	}
	if decisions == nil {
		decisions = []model.Decision{}
	}
	printOut(decisions)
}
