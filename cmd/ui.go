package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the terminal form (default command)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

// runUI starts the terminal form. Logs would corrupt the screen, so they are
// discarded unless --log-file is given.
func runUI(cmd *cobra.Command) error {
	cmd.SilenceUsage = true

	ctx, cancel := signalContext()
	defer cancel()

	logger := zap.NewNop()
	if viper.GetString("log-file") != "" {
		var err error
		logger, err = newLogger("")
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	config, err := getConfig()
	if err != nil {
		return err
	}

	svc, err := newScoringService(ctx, config, logger)
	if err != nil {
		return err
	}

	logger.Info("starting the terminal ui", zap.String("version", version), zap.String("provider", svc.Provider()))

	return tui.Run(ctx, svc, svc.Provider())
}
