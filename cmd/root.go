package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoemporium/showroom-assistant/internal/config"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

var (
	envFile string
	appCfg  *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "showroom",
	Short: "Showroom sales assistant",
	Long: `showroom runs the car showroom sales assistant.

It collects a customer's vehicle preferences over a conversation, recommends
matching inventory, and walks the customer through test drive and financing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logx.Init(cfg.LoggerOpts())
		appCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(serveCmd, chatCmd, journeyCmd, purgeCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
