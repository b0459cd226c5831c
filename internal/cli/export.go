package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export initiatives and decisions",
		Long:  "Export every initiative snapshot and decision. Filter decisions by note with -n.",
		Run:   runExport,
	}

	cmd.Flags().StringP("note", "n", "", "Only export decisions for this note")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	note, _ := cmd.Flags().GetString("note")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	snap, err := s.ExportAll(cmd.Context(), note)
	if err != nil {
		exitErr("export", err)
	}
	printOut(snap)
}
