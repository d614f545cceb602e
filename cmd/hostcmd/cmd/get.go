package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/hostcmd/action"
)

var (
	getClass   string
	getName    string
	getIndex   int
	getID      int
	getRefJSON string
	getTimeout time.Duration
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Resolve a reference and print its descriptor",
	Long: `Resolves a reference against the host and prints the full result
descriptor as JSON.

The target is selected by class plus at most one selector:

  hostcmd get --class document
  hostcmd get --class layer --index 2
  hostcmd get --class layer --name "Background"
  hostcmd get --ref '{"_ref": "application"}'`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getClass, "class", "", "target class")
	getCmd.Flags().StringVar(&getName, "name", "", "select by name")
	getCmd.Flags().IntVar(&getIndex, "index", 0, "select by one-based index")
	getCmd.Flags().IntVar(&getID, "id", 0, "select by unique id")
	getCmd.Flags().StringVar(&getRefJSON, "ref", "", "raw canonical reference as JSON")
	getCmd.Flags().DurationVar(&getTimeout, "timeout", 30*time.Second, "dispatch timeout")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), getTimeout)
	defer cancel()

	result, err := s.engine.Get(ctx, ref, action.Options{})
	if err != nil {
		printError("get failed", err)
		return err
	}

	return printJSON(cmd, result)
}

// buildReference assembles the target reference from the selector flags
func buildReference() (action.Reference, error) {
	if getRefJSON != "" {
		var descriptor action.Descriptor
		if err := json.Unmarshal([]byte(getRefJSON), &descriptor); err != nil {
			return nil, err
		}
		return action.Raw(descriptor), nil
	}

	class := getClass
	if class == "" {
		class = "application"
	}

	switch {
	case getName != "":
		return action.Name(class, getName), nil
	case getIndex > 0:
		return action.Index(class, getIndex), nil
	case getID > 0:
		return action.ID(class, getID), nil
	default:
		return action.Class(class), nil
	}
}
