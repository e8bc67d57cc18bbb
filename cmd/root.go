package cmd

import (
	"fmt"
	"os"

	"portfolio-cms/pkg/config"
	"portfolio-cms/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-cms",
	Short: "Bilingual portfolio and blog CMS",
	Long: `portfolio-cms authors the concepts and blog posts of a bilingual
(German/English) portfolio site and publishes them to a GitHub repository.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cms.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func initializeConfig(_ *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	l, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = l
	return nil
}
