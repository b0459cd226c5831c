package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss a suggestion for a note",
		Long:  "Record that a suggestion was dismissed. Decisions are keyed by note id and suggestion key, so they survive regeneration.",
		Run:   runDismiss,
	}

	cmd.Flags().StringP("note", "n", "", "Note id (required)")
	cmd.Flags().StringP("key", "k", "", "Suggestion key (required)")
	cmd.Flags().String("by", "", "Who decided")

	cmd.MarkFlagRequired("note")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runDismiss(cmd *cobra.Command, args []string) {
	note, _ := cmd.Flags().GetString("note")
	key, _ := cmd.Flags().GetString("key")
	by, _ := cmd.Flags().GetString("by")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	d, err := s.Dismiss(cmd.Context(), note, key, by)
	if err != nil {
		exitErr("dismiss", err)
	}
	printOut(d)
}
