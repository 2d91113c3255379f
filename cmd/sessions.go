package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/orbitlab/planetforge/internal/store"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions [id]",
	Short: "List or show recorded generation sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("no audit store configured (set store.driver)")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		var out any
		if len(args) == 1 {
			sess, err := st.GetSession(ctx, args[0])
			if err != nil {
				return err
			}
			out = sess
		} else {
			sessions, err := st.ListSessions(ctx, sessionsLimit)
			if err != nil {
				return err
			}
			if sessions == nil {
				sessions = []store.Session{}
			}
			out = sessions
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "encode sessions")
	},
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "maximum sessions to list")
	rootCmd.AddCommand(sessionsCmd)
}
