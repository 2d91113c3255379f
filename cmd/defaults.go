package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/orbitlab/planetforge/internal/params"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the base parameter document as stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := params.Load(cfg.Params.Path)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(base), "encode defaults")
	},
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}
