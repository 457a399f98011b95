// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/inbox-intel/internal/history"
	"github.com/pdiddy/inbox-intel/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved analysis runs",
	Long: `History lists analysis runs saved with analyze --save and shows the
full bundle for a given run ID.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the full bundle for a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().String("dir", "", "history directory (default from config)")
	historyListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyShowCmd.Flags().Bool("json", false, "output the bundle as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyStore(cmd *cobra.Command) (*history.Store, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = viper.GetString("history_dir")
	}
	if dir == "" {
		dir = types.DefaultAnalysisConfig().History.Dir
	}
	return history.NewStore(types.HistoryConfig{Dir: dir})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %-8s  %-8s  %s\n",
		"Run", "Created", "Subject", "Searches", "Eff %", "Words")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 116))
	for _, r := range runs {
		subject := r.Subject
		if len(subject) > 30 {
			subject = subject[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %-8d  %-8.1f  %d\n",
			r.RunID, r.CreatedAt, subject, r.ActualSearches, r.EfficiencyRate, r.DraftWords)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := historyStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Get(args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(os.Stdout, result)
	}
	renderResult(os.Stdout, result)
	return nil
}
