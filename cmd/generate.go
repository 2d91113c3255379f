package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orbitlab/planetforge/internal/derive"
	"github.com/orbitlab/planetforge/internal/params"
	"github.com/orbitlab/planetforge/internal/session"
	"github.com/orbitlab/planetforge/internal/store"
)

var (
	generateOverridesPath string
	generateSets          []string
	generateAudit         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Derive a planet profile once and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		base, err := params.Load(cfg.Params.Path)
		if err != nil {
			return err
		}
		doc := base.Parameters

		if generateOverridesPath != "" {
			data, err := os.ReadFile(generateOverridesPath)
			if err != nil {
				return eris.Wrapf(err, "read overrides %s", generateOverridesPath)
			}
			var overrides params.Overrides
			if err := json.Unmarshal(data, &overrides); err != nil {
				return eris.Wrapf(err, "parse overrides %s", generateOverridesPath)
			}
			doc = doc.Apply(overrides)
		}

		for _, kv := range generateSets {
			path, raw, ok := strings.Cut(kv, "=")
			if !ok {
				return eris.Errorf("invalid --set %q, want path=value", kv)
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return eris.Wrapf(err, "invalid --set value %q", raw)
			}
			if err := doc.Set(path, value); err != nil {
				return err
			}
		}

		result, err := derive.New().Derive(doc)
		if err != nil {
			return err
		}

		if generateAudit {
			if err := auditSession(ctx, doc, result); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	},
}

// auditSession records a CLI generation the same way the server does.
func auditSession(ctx context.Context, doc params.Document, result *derive.Result) error {
	id := session.NewID()

	if cfg.Audit.Dir != "" {
		path := filepath.Join(cfg.Audit.Dir, "tmp_config_"+id+".json")
		if err := params.Save(params.Base{Parameters: doc}, path); err != nil {
			return err
		}
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "migrate store")
	}
	err = st.SaveSession(ctx, store.Session{
		ID:         id,
		Parameters: doc,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	zap.L().Info("session recorded", zap.String("session_id", id))
	return nil
}

func init() {
	generateCmd.Flags().StringVar(&generateOverridesPath, "overrides", "", "JSON file with parameter overrides")
	generateCmd.Flags().StringArrayVar(&generateSets, "set", nil, "override a parameter by dotted path, e.g. --set stellar.axial_tilt_deg=35")
	generateCmd.Flags().BoolVar(&generateAudit, "audit", false, "record the session to the configured audit sinks")
	rootCmd.AddCommand(generateCmd)
}
