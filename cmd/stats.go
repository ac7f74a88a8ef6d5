package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about past conversions.",
	Long:  "Prints statistics about past conversions per input and the domains links were shared from.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "INPUT\tCONVERSIONS\tSUCCEEDED\tFAILED\t")

		var total, totalSucceeded, totalFailed int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", s.Input, s.Total, s.Succeeded, s.Failed)
			total += s.Total
			totalSucceeded += s.Succeeded
			totalFailed += s.Failed
		}

		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t\n", total, totalSucceeded, totalFailed)
		w.Flush()

		top, _ := cmd.Flags().GetInt("domains")
		if top <= 0 {
			return nil
		}
		domains, err := db.GetDomainStats(context.Background(), top)
		if err != nil {
			return err
		}
		if len(domains) == 0 {
			return nil
		}
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "DOMAIN\tCONVERSIONS\t")
		for _, d := range domains {
			fmt.Fprintf(w, "%s\t%d\t\n", d.Domain, d.Total)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int("domains", 10, "Number of top domains to print (0 to skip)")
}
