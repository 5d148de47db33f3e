package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Send a single message and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := buildAssistant(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.ProcessMessage(cmd.Context(), flags.sessionID, flags.userID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Response)
			if len(res.Sources) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\nsources: %s\n", strings.Join(res.Sources, ", "))
			}
			return nil
		},
	}
}
