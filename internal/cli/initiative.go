package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/notesuggest/internal/model"
	"github.com/rcliao/notesuggest/internal/store"
)

func init() {
	parent := &cobra.Command{
		Use:   "initiative",
		Short: "Manage initiative snapshots used for routing",
	}

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Store an initiative snapshot",
		Args:  cobra.MinimumNArgs(1),
		Run:   runInitiativeAdd,
	}
	add.Flags().String("id", "", "Initiative id (default: generated)")
	add.Flags().String("description", "", "Description")
	add.Flags().String("status", "", "Status, e.g. active or paused")
	add.Flags().StringP("tags", "t", "", "Comma-separated tags")

	list := &cobra.Command{
		Use:   "list",
		Short: "List initiative snapshots",
		Args:  cobra.NoArgs,
		Run:   runInitiativeList,
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search initiatives by title, description or tag",
		Args:  cobra.MinimumNArgs(1),
		Run:   runInitiativeSearch,
	}
	search.Flags().String("status", "", "Filter by status")
	search.Flags().IntP("limit", "l", 20, "Max results")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an initiative snapshot",
		Args:  cobra.ExactArgs(1),
		Run:   runInitiativeRm,
	}

	parent.AddCommand(add, list, search, rm)
	RootCmd.AddCommand(parent)
}

func runInitiativeAdd(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	description, _ := cmd.Flags().GetString("description")
	status, _ := cmd.Flags().GetString("status")
	tagsStr, _ := cmd.Flags().GetString("tags")

	var tags []string
	if tagsStr != "" {
		for _, t := range strings.Split(tagsStr, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tags = append(tags, t)
			}
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	in, err := s.PutInitiative(cmd.Context(), store.PutInitiativeParams{
		ID:          id,
		Title:       strings.Join(args, " "),
		Description: description,
		Status:      status,
		Tags:        tags,
	})
	if err != nil {
		exitErr("initiative add", err)
	}
	printOut(in)
}

func runInitiativeList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	list, err := s.ListInitiatives(cmd.Context())
	if err != nil {
		exitErr("initiative list", err)
	}
	if list == nil {
		list = []model.InitiativeSnapshot{}
	}
	printOut(list)
}

func runInitiativeSearch(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.SearchInitiatives(cmd.Context(), store.SearchParams{
		Query:  strings.Join(args, " "),
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		exitErr("initiative search", err)
	}
	if results == nil {
		results = []model.InitiativeSnapshot{}
	}
	printOut(results)
}

func runInitiativeRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RmInitiative(cmd.Context(), args[0]); err != nil {
		exitErr("initiative rm", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}
