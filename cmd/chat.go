package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autoemporium/showroom-assistant/internal/bootstrap"
	"github.com/autoemporium/showroom-assistant/internal/server"
)

var (
	chatThread    string
	chatUser      string
	chatShowState bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [MESSAGE...]",
	Short: "Talk to the assistant from the terminal",
	Long: `Process one turn with MESSAGE, or read one message per line from stdin
when no message is given. Turns share the --thread conversation.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatThread, "thread", "", "conversation id (generated when empty)")
	chatCmd.Flags().StringVar(&chatUser, "user", "cli-user", "customer id")
	chatCmd.Flags().BoolVar(&chatShowState, "state", false, "print the journey after every turn")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := bootstrap.NewContainer(ctx, appCfg, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer c.Close()

	if chatThread == "" {
		chatThread = server.NewSessionID()
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "thread: %s\n", chatThread)

	turn := func(message string) error {
		res, err := c.Runner.ProcessTurn(ctx, chatThread, chatUser, message)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "assistant: %s\n", res.ResponseText)
		if chatShowState {
			return printJSON(out, res.Journey)
		}
		return nil
	}

	if len(args) > 0 {
		return turn(strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "you: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := turn(line); err != nil {
			return err
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
