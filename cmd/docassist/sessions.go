package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/docassist/pkg/docassist/store"
)

func newSessionsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage persisted sessions",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List persisted conversation threads",
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := store.NewSQLiteStore(flags.dbPath)
				if err != nil {
					return err
				}
				defer st.Close()

				infos, err := st.List(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "THREAD\tTURNS\tUPDATED\tSIZE")
				for _, info := range infos {
					fmt.Fprintf(w, "%s\t%d\t%s\t%d\n",
						info.ThreadID, info.Turn, info.Timestamp.Format("2006-01-02 15:04:05"), info.Size)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the current session's state",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, cleanup, err := buildAssistant(flags)
				if err != nil {
					return err
				}
				defer cleanup()

				if err := a.Reset(cmd.Context(), flags.sessionID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session %s reset\n", flags.sessionID)
				return nil
			},
		},
	)

	return cmd
}
