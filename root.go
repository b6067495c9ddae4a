package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"talentscout-bot/pkg/log"
)

const defaultConfigFile = "config/intake.yaml"

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "talentscout",
	Short:         "TalentScout candidate intake assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables still apply
		_ = godotenv.Load()

		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if env, err := loadEnv(); err == nil {
				level = env.LogLevel
			}
		}
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		zap.ReplaceGlobals(log.InitLog(lvl))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(telegramCmd)
	rootCmd.AddCommand(serveCmd)

	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&configFile, "config", "c", defaultConfigFile, "Path to configuration file")
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
