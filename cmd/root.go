package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/philipparndt/guideline/internal/app"
	"github.com/philipparndt/guideline/internal/config"
	"github.com/philipparndt/guideline/internal/logging"
	"github.com/philipparndt/guideline/version"
	"github.com/spf13/cobra"
)

var (
	exportPath string
	draggable  bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "guideline [config]",
	Short: "Place alignment guide lines on character models",
	Long: `guideline shows each configured character model in front of an orthographic
camera and lets you place horizontal and vertical guide lines on it. The guide
positions of the whole model list are exported as JSON.`,
	Version:      version.GetFullVersion(),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runViewer,
}

func init() {
	rootCmd.Flags().StringVarP(&exportPath, "out", "o", "", "export file (overrides export.path)")
	rootCmd.Flags().BoolVar(&draggable, "draggable", false, "allow moving guide lines by dragging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides logLevel)")
}

// loadConfig reads the config file named by args, or the default file
func loadConfig(args []string) (*config.Config, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return config.Load(path)
}

// overrideExportPath applies --out. Unlike paths in the config file, the flag
// is relative to the working directory.
func overrideExportPath(cfg *config.Config, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve export path: %w", err)
	}
	cfg.Export.Path = abs
	return nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		if err := overrideExportPath(cfg, exportPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("draggable") {
		cfg.Annotation.Draggable = draggable
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logging.New(cfg.LogLevel, nil)
	log.Info().
		Str("version", version.GetVersion()).
		Int("models", len(cfg.Models)).
		Int("poses", len(cfg.Poses)).
		Msg("Starting guideline")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, cfg, log)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
