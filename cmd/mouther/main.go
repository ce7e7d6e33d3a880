package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spacebaboon/gibbering-mouther/internal/logger"
	"github.com/spacebaboon/gibbering-mouther/pkg/config"
	"github.com/spacebaboon/gibbering-mouther/pkg/gibber"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mouther",
		Short: "Record a voice sample and play it back as a gibbering chorus",
		Long: "mouther records a short sample from the microphone and plays it back\n" +
			"as many pitch-shifted, staggered, reverb-washed copies of itself,\n" +
			"live or rendered to a WAV file.",
		SilenceUsage: true,
		RunE:         run,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(logLevel)
	log.Info("starting gibbering mouther...")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Warnf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	session, err := gibber.NewSession(cfg, log)
	if err != nil {
		return err
	}
	defer session.Close()

	return runConsole(session, log)
}
