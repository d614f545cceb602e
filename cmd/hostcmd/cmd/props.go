package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/hostcmd/action"
)

var (
	propsOptional bool
	propsTimeout  time.Duration
)

var propsCmd = &cobra.Command{
	Use:   "props <property>...",
	Short: "Fetch properties of a reference",
	Long: `Fetches one or more properties of a reference and prints them as a
JSON object. Multiple properties are fetched in a single round trip.

The target is selected with the same flags as "get":

  hostcmd props --class document title resolution
  hostcmd props --class layer --index 2 name visible

By default a property missing from the host's answer fails the call;
with --optional missing properties are simply left out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProps,
}

func init() {
	propsCmd.Flags().StringVar(&getClass, "class", "", "target class")
	propsCmd.Flags().StringVar(&getName, "name", "", "select by name")
	propsCmd.Flags().IntVar(&getIndex, "index", 0, "select by one-based index")
	propsCmd.Flags().IntVar(&getID, "id", 0, "select by unique id")
	propsCmd.Flags().StringVar(&getRefJSON, "ref", "", "raw canonical reference as JSON")
	propsCmd.Flags().BoolVar(&propsOptional, "optional", false, "tolerate missing properties")
	propsCmd.Flags().DurationVar(&propsTimeout, "timeout", 30*time.Second, "dispatch timeout")
	rootCmd.AddCommand(propsCmd)
}

func runProps(cmd *cobra.Command, args []string) error {
	ref, err := buildReference()
	if err != nil {
		printError("invalid reference", err)
		return err
	}

	s, err := newSession()
	if err != nil {
		printError("failed to connect", err)
		return err
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(context.Background(), propsTimeout)
	defer cancel()

	var result action.Descriptor
	if propsOptional {
		result, err = s.engine.BatchGetOptionalProperties(ctx, ref, args)
	} else {
		result, err = s.engine.MultiGetProperties(ctx, ref, args, action.Options{})
	}
	if err != nil {
		printError("property fetch failed", err)
		return err
	}

	return printJSON(cmd, result)
}
