package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/hostcmd/action"
)

var (
	playDescriptor  string
	playInteraction string
	playTimeout     time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <command>",
	Short: "Execute a single command",
	Long: `Executes a single named command against the host and prints the
result descriptor as JSON.

The command descriptor is given as inline JSON:

  hostcmd play make --descriptor '{"_target": {"_ref": "document"}}'`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playDescriptor, "descriptor", "d", "{}", "command descriptor as JSON")
	playCmd.Flags().StringVar(&playInteraction, "interaction", "", "interaction mode (silent, display, dontDisplay)")
	playCmd.Flags().DurationVar(&playTimeout, "timeout", 30*time.Second, "dispatch timeout")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	var descriptor action.Descriptor
	if err := json.Unmarshal([]byte(playDescriptor), &descriptor); err != nil {
		printError("invalid descriptor JSON", err)
		return err
	}

	s, err := newSession()
	if err != nil {
		printError("failed to connect", err)
		return err
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	result, err := s.engine.Play(ctx, args[0], descriptor, action.Options{
		Interaction: action.Interaction(playInteraction),
	})
	if err != nil {
		printError("command failed", err)
		return err
	}

	return printJSON(cmd, result)
}

// printJSON renders a value as indented JSON on the command's stdout
func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
