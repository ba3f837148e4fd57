package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionSecretCmd())
	cmd.AddCommand(newSessionGuessCmd())
	cmd.AddCommand(newSessionQuitCmd())

	return cmd
}

// currentSession resolves the session id to act on: an explicit argument
// wins, otherwise the saved session from the last create/join is used.
func currentSession(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Session.SessionID == "" {
		return "", fmt.Errorf("no session id given and none saved; run 'session create' or 'session join' first")
	}
	return cfg.Session.SessionID, nil
}

func currentPlayer() (string, error) {
	if cfg.Session.PlayerID == "" {
		return "", fmt.Errorf("no saved player id; run 'session create' or 'session join' first")
	}
	return cfg.Session.PlayerID, nil
}

func newSessionCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			var result CreateResult

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(result.SessionID, result.PlayerID); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSessionJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <session-id>",
		Short: "Join an existing session as the second player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			req := map[string]string{"display_name": name}
			var result CreateResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/join", sessionID), req, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(result.SessionID, result.PlayerID); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [session-id]",
		Short: "Get session state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := currentSession(args)
			if err != nil {
				return err
			}

			var result Session
			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", sessionID), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret <value>",
		Short: "Commit your secret number",
		Long: `Commit your secret number for the current session.

The secret must be a 4 digit number with no repeated digits and no
leading zero, e.g. 1234 or 9035. It can only be set once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := currentSession(nil)
			if err != nil {
				return err
			}
			playerID, err := currentPlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID, "secret": args[0]}
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/secret", sessionID), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Secret committed")
			return nil
		},
	}
}

func newSessionGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <value>",
		Short: "Guess the opponent's secret number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := currentSession(nil)
			if err != nil {
				return err
			}
			playerID, err := currentPlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID, "guess": args[0]}
			var result GuessResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/guess", sessionID), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Leave the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := currentSession(nil)
			if err != nil {
				return err
			}
			playerID, err := currentPlayer()
			if err != nil {
				return err
			}

			req := map[string]string{"player_id": playerID}
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/quit", sessionID), req, nil); err != nil {
				return err
			}

			if err := cfg.ClearSession(); err != nil {
				return fmt.Errorf("failed to clear saved session: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left session %s", sessionID))
			return nil
		},
	}
}
