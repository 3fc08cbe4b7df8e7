package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring form and JSON API over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr, :8080)")

	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, cancel := signalContext()
	defer cancel()

	logger, err := newLogger("stdout")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-scoring server", zap.String("version", version))

	svc, err := newScoringService(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the scoring service", zap.Error(err))
	}

	srv, err := web.New(svc, logger.Named("web"))
	if err != nil {
		logger.Fatal("creating the http server", zap.Error(err))
	}

	if err := srv.Run(ctx, config.Serve.Addr); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
