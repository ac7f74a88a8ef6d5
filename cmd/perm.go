package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/geoshare/pkg/permissions"
)

// permCmd represents the perm command
var permCmd = &cobra.Command{
	Use:   "perm",
	Short: "Show or change the stored network permissions",
	Long: `Show or change the stored network permissions.

Categories:
  unshorten    resolve short links such as maps.app.goo.gl
  fetch_html   download the web page of a link that has no coordinates

Values: always, ask, never.`,
}

var permGetCmd = &cobra.Command{
	Use:   "get [category]",
	Short: "Print the stored permissions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categories := permissions.Categories
		if len(args) == 1 {
			c, err := permissions.ParseCategory(args[0])
			if err != nil {
				return err
			}
			categories = []permissions.Category{c}
		}

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stored, err := db.ListPermissions(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tPERMISSION\t")
		for _, c := range categories {
			fmt.Fprintf(w, "%s\t%s\t\n", c, stored[c])
		}
		w.Flush()
		return nil
	},
}

var permSetCmd = &cobra.Command{
	Use:   "set <category> <always|ask|never>",
	Short: "Store a permission",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := permissions.ParseCategory(args[0])
		if err != nil {
			return err
		}
		p, err := permissions.ParsePermission(args[1])
		if err != nil {
			return err
		}

		db, lock, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return lock.WithLock(func() error {
			return db.Set(context.Background(), c, p)
		})
	},
}

func init() {
	rootCmd.AddCommand(permCmd)
	permCmd.AddCommand(permGetCmd)
	permCmd.AddCommand(permSetCmd)
}
