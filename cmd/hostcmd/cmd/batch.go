package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/hostcmd/action"
)

var (
	batchContinue    bool
	batchTransaction bool
	batchInteraction string
	batchTimeout     time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Execute a batch of commands from a JSON file",
	Long: `Executes a list of commands as one batch. The file (or stdin when
omitted or "-") holds a JSON array of commands:

  [
    {"name": "make", "descriptor": {"_target": {"_ref": "document"}}},
    {"name": "set",  "descriptor": {...}}
  ]

With --continue-on-error the batch runs to the end and per-command
failures are reported positionally; the default stops at the first
failure. With --transaction the commands are grouped into a single
begin/end transaction round trip.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchContinue, "continue-on-error", false, "run all commands, report failures positionally")
	batchCmd.Flags().BoolVar(&batchTransaction, "transaction", false, "group the commands into one transaction")
	batchCmd.Flags().StringVar(&batchInteraction, "interaction", "", "interaction mode (silent, display, dontDisplay)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 60*time.Second, "dispatch timeout")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	commands, err := readCommands(args)
	if err != nil {
		printError("failed to read commands", err)
		return err
	}

	s, err := newSession()
	if err != nil {
		printError("failed to connect", err)
		return err
	}
	defer s.close()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	options := action.Options{
		Interaction: action.Interaction(batchInteraction),
	}
	if batchContinue {
		options.ContinueOnError = action.Bool(true)
	}

	var outcome *action.Outcome
	if batchTransaction {
		id := s.engine.Begin(options)
		if _, err := s.engine.Add(id, commands, action.Options{}); err != nil {
			printError("failed to queue commands", err)
			return err
		}
		outcome, err = s.engine.End(ctx, id)
	} else {
		outcome, err = s.engine.BatchPlay(ctx, commands, options)
	}
	if err != nil {
		printError("batch failed", err)
		return err
	}

	return printOutcome(cmd, outcome)
}

// readCommands parses the command list from the given file argument or
// stdin
func readCommands(args []string) ([]action.Command, error) {
	var reader io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var commands []action.Command
	if err := json.NewDecoder(reader).Decode(&commands); err != nil {
		return nil, err
	}
	return commands, nil
}

// printOutcome renders a batch outcome, marking per-command failures
func printOutcome(cmd *cobra.Command, outcome *action.Outcome) error {
	type entry struct {
		Result action.Descriptor `json:"result,omitempty"`
		Error  string            `json:"error,omitempty"`
	}

	entries := make([]entry, len(outcome.Results))
	for i, result := range outcome.Results {
		entries[i].Result = result
		if i < len(outcome.Errors) && outcome.Errors[i] != nil {
			entries[i].Error = outcome.Errors[i].Error()
		}
	}

	if err := printJSON(cmd, entries); err != nil {
		return err
	}

	if outcome.HasErrors() {
		return fmt.Errorf("%d of %d commands failed", countErrors(outcome), len(outcome.Results))
	}
	return nil
}

func countErrors(outcome *action.Outcome) int {
	n := 0
	for _, err := range outcome.Errors {
		if err != nil {
			n++
		}
	}
	return n
}
