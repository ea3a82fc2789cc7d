package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/config"
	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/ui"
)

var (
	verbose bool
	quiet   bool
	noColor bool
	cfgFile string
	logger  *log.Logger
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "prism",
	Short: "Theme controller for terminal UIs",
	Long: ui.Banner() + `
prism keeps color, mode, direction and layout preferences in one
store and renders every screen from the resulting theme.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		if cmd.Name() != "version" && cmd.Name() != "help" {
			var err error
			path := cfgFile
			if path == "" {
				path = config.GetConfigPath()
			}
			cfg, err = config.Load(path)
			if err != nil {
				logger.Warn("could not load config, using defaults", "error", err)
				cfg = config.DefaultConfig()
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", path, err)
			}
		}

		applyUISettings(store.DefaultPreferences())
		setupLogger()

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runSettings(cmd, args)
		}
		return cmd.Help()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if logger == nil {
			setupLogger()
		}
		logger.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/prism/prism.yaml)")

	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func colorDisabled() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return cfg != nil && cfg.UI.NoColor
}

// applyUISettings mirrors the stored preferences into the ui package.
func applyUISettings(p store.Preferences) {
	dense := false
	if cfg != nil {
		dense = cfg.UI.Dense
	}
	ui.ApplyPreferences(ui.Preferences{
		Dense:      dense,
		NoColor:    colorDisabled(),
		Gradient:   p.Gradient,
		Decoration: p.Decoration,
		BgPosition: p.BgPosition,
		Layout:     p.Layout,
	})
}

func setupLogger() {
	level := log.InfoLevel
	switch {
	case quiet:
		level = log.WarnLevel
	case verbose:
		level = log.DebugLevel
	}

	styles := log.DefaultStyles()
	if !colorDisabled() {
		levelColors := map[log.Level]lipgloss.Color{
			log.DebugLevel: ui.Muted,
			log.InfoLevel:  ui.Primary,
			log.WarnLevel:  ui.Warning,
			log.ErrorLevel: ui.Error,
		}
		for lvl, color := range levelColors {
			styles.Levels[lvl] = lipgloss.NewStyle().
				SetString(strings.ToUpper(lvl.String())).
				Foreground(color).
				Bold(true)
		}
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "prism",
	})
	logger.SetStyles(styles)
}
