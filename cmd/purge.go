package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoemporium/showroom-assistant/internal/bootstrap"
)

var purgeConfirmed bool

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every conversation checkpoint and all long-term memory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !purgeConfirmed {
			return errors.New("refusing to purge without --yes")
		}

		c, err := bootstrap.NewContainer(cmd.Context(), appCfg, bootstrap.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		if !c.Runner.DeleteAllSessions(cmd.Context()) {
			return errors.New("failed to delete all sessions")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "all sessions deleted")
		return nil
	},
}

func init() {
	purgeCmd.Flags().BoolVar(&purgeConfirmed, "yes", false, "confirm deletion")
}
