package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/notesuggest/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a suggestion to an initiative",
		Long:  "Record that a suggestion was applied, either to an existing initiative (--initiative, id or title) or as a new initiative (--new-title).",
		Run:   runApply,
	}

	cmd.Flags().StringP("note", "n", "", "Note id (required)")
	cmd.Flags().StringP("key", "k", "", "Suggestion key (required)")
	cmd.Flags().StringP("initiative", "i", "", "Existing initiative id or title")
	cmd.Flags().String("new-title", "", "Create a new initiative with this title")
	cmd.Flags().String("description", "", "Description for the new initiative")
	cmd.Flags().String("by", "", "Who decided")

	cmd.MarkFlagRequired("note")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagsMutuallyExclusive("initiative", "new-title")

	RootCmd.AddCommand(cmd)
}

func runApply(cmd *cobra.Command, args []string) {
	note, _ := cmd.Flags().GetString("note")
	key, _ := cmd.Flags().GetString("key")
	initiative, _ := cmd.Flags().GetString("initiative")
	newTitle, _ := cmd.Flags().GetString("new-title")
	description, _ := cmd.Flags().GetString("description")
	by, _ := cmd.Flags().GetString("by")

	if initiative == "" && newTitle == "" {
		exitErr("apply", fmt.Errorf("one of --initiative or --new-title is required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var d *model.Decision
	if initiative != "" {
		d, err = s.ApplyExisting(cmd.Context(), note, key, initiative, by)
	} else {
		d, err = s.ApplyNew(cmd.Context(), note, key, newTitle, description, by)
	}
	if err != nil {
		exitErr("apply", err)
	}
	printOut(d)
}
