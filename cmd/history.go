package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/geoshare/internal/utils"
	"github.com/sw33tLie/geoshare/pkg/geo"
	"github.com/sw33tLie/geoshare/pkg/storage"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print past conversions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		failed, _ := cmd.Flags().GetBool("failed")
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")
		asJSON, _ := cmd.Flags().GetBool("json")

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		opts := storage.ListOptions{Input: input, FailedOnly: failed, Limit: limit}
		if since > 0 {
			opts.Since = time.Now().Add(-since)
		}
		entries, err := db.ListConversions(context.Background(), opts)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if entries == nil {
				entries = []storage.Conversion{}
			}
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No conversions in the history.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WHEN\tINPUT\tRESULT\tTEXT\t")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", e.OccurredAt.Local().Format("2006-01-02 15:04"), e.Input, historyResult(e), utils.Truncate(e.Text, 60))
		}
		w.Flush()
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete past conversions",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")

		db, lock, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var before time.Time
		if olderThan > 0 {
			before = time.Now().Add(-olderThan)
		}
		var n int64
		err = lock.WithLock(func() error {
			n, err = db.ClearHistory(context.Background(), before)
			return err
		})
		if err != nil {
			return err
		}
		utils.Log.Infof("Deleted %s", utils.Plural(int(n), "conversion"))
		return nil
	},
}

func historyResult(e storage.Conversion) string {
	if e.Status == storage.StatusFailed {
		return "failed: " + e.Failure
	}
	if e.HasPoint {
		res := geo.FormatCoord(e.Lat) + "," + geo.FormatCoord(e.Lon)
		if e.Name != "" {
			res += " (" + e.Name + ")"
		}
		return res
	}
	return e.Q
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.Flags().String("input", "", "Only show conversions handled by this input (see geoshare inputs)")
	historyCmd.Flags().Bool("failed", false, "Only show failed conversions")
	historyCmd.Flags().Int("limit", 50, "Maximum number of conversions to show")
	historyCmd.Flags().Duration("since", 0, "Only show conversions newer than this, e.g. 24h")
	historyCmd.Flags().Bool("json", false, "Print JSON")
	historyClearCmd.Flags().Duration("older-than", 0, "Only delete conversions older than this, e.g. 720h")
}
