package cmd

import (
	"fmt"

	"github.com/philipparndt/guideline/internal/config"
	"github.com/philipparndt/guideline/internal/logging"
	"github.com/philipparndt/guideline/internal/store"
	"github.com/philipparndt/guideline/pkg/annotation"
	"github.com/spf13/cobra"
)

var (
	exportDB     string
	exportOut    string
	exportConfig string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the latest stored guide lines of every configured model",
	Long: `Export reads the annotation history database and writes the newest record of
each model in the config to a model list file. Models without history are
written with their location only.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "", "history database (defaults to store.path)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "export file (defaults to export.path)")
	exportCmd.Flags().StringVarP(&exportConfig, "config", "c", "", "config file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(exportConfig)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log := logging.New(cfg.LogLevel, cmd.ErrOrStderr())

	dbPath := exportDB
	if dbPath == "" {
		dbPath = cfg.Resolve(cfg.Store.Path)
	}
	out := exportOut
	if out == "" {
		out = cfg.Resolve(cfg.Export.Path)
	}

	st, err := store.Open(dbPath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := st.Document(cmd.Context(), cfg.ModelPaths())
	if err != nil {
		return err
	}
	if err := annotation.SaveDocument(out, doc); err != nil {
		return fmt.Errorf("failed to export model list: %w", err)
	}

	log.Info().Str("path", out).Int("models", len(doc.ModelList)).Msg("Model list exported")
	return nil
}
