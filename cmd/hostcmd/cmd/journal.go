package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/hostcmd/journal"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the local dispatch journal",
	Long: `Prints recent entries from the local dispatch journal, newest
first. Journaling is enabled in the configuration:

  [journal]
  enabled = true
  path = "hostcmd-journal.db"`,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum entries to print")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		printError("failed to load config", err)
		return err
	}

	j, err := journal.Open(journal.Options{
		Path:   cfg.Journal.Path,
		Logger: newLogger(cfg),
	})
	if err != nil {
		printError("failed to open journal", err)
		return err
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), journalLimit)
	if err != nil {
		printError("failed to read journal", err)
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "journal is empty")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		tx := "-"
		if e.Transaction != nil {
			tx = fmt.Sprintf("%d", *e.Transaction)
		}
		status := "ok"
		if e.Err != "" {
			status = e.Err
		}
		fmt.Fprintf(out, "%s  %-5s  commands=%-3d  tx=%-4s  %8s  %s\n",
			e.Time.Local().Format("2006-01-02 15:04:05"),
			e.Kind, e.Commands, tx, e.Duration, status)
	}
	return nil
}
