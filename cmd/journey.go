package cmd

import (
	"github.com/spf13/cobra"

	"github.com/autoemporium/showroom-assistant/internal/bootstrap"
)

var journeyCmd = &cobra.Command{
	Use:   "journey THREAD",
	Short: "Print the journey of a conversation as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := bootstrap.NewContainer(cmd.Context(), appCfg, bootstrap.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		journey, err := c.Runner.GetJourney(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), journey)
	},
}
