package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Archived match commands",
	}

	cmd.AddCommand(newMatchesListCmd())
	cmd.AddCommand(newMatchesGetCmd())

	return cmd
}

func newMatchesListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently archived matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []MatchRecord

			path := "/api/v1/matches"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum matches to list (default: server default)")

	return cmd
}

func newMatchesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Get an archived match record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchRecord

			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
