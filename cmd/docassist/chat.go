package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `chat reads messages from stdin and prints responses until EOF
or /quit. The conversation resumes from the session's last committed
state, so a restarted chat picks up where it left off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := buildAssistant(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session %s (thread %s). /quit to exit.\n", flags.sessionID, a.ThreadID(flags.sessionID))

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if input == "/quit" || input == "/exit" {
					break
				}

				res, err := a.ProcessMessage(cmd.Context(), flags.sessionID, flags.userID, input)
				if err != nil {
					// The turn did not commit; the session is still usable.
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}

				fmt.Fprintln(out, res.Response)
				if len(res.Sources) > 0 {
					fmt.Fprintf(out, "  sources: %s\n", strings.Join(res.Sources, ", "))
				}
			}
			return scanner.Err()
		},
	}
}
