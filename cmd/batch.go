package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/geoshare/internal/utils"
	"github.com/sw33tLie/geoshare/pkg/batch"
	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/output"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Convert one link per line",
	Long: `Convert one link or message per line, read from file or stdin. Blank lines and lines starting with # are skipped.
Nobody is asked for permissions: network access follows the stored permissions, or --yes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		yes, _ := cmd.Flags().GetBool("yes")
		delimiter, _ := cmd.Flags().GetString("delimiter")

		var in io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		texts, err := batch.ReadLines(in)
		if err != nil {
			return err
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if yes {
			s.env.Prompter = conversion.PrompterFunc(func(context.Context, conversion.Request) (conversion.Decision, error) {
				return conversion.Decision{Granted: true}, nil
			})
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg := batch.Config{
			Env:         s.env,
			Concurrency: concurrency,
			Log:         utils.Log,
			OnItemDone: func(item batch.Item) {
				utils.Log.Debugf("[%d] %s: %s", item.Index, utils.Truncate(item.Text, 60), conversion.Name(item.State))
			},
		}

		var res *batch.Result
		run := func() error {
			res = batch.Convert(ctx, cfg, texts)
			return nil
		}
		if s.db != nil {
			cfg.DB = s.db
			if err := s.lock.WithLock(run); err != nil {
				return err
			}
		} else {
			run()
		}

		for _, item := range res.Items {
			fmt.Println(formatItem(item, format, delimiter))
		}
		utils.Log.Infof("%s converted, %s failed", utils.Plural(res.Succeeded, "link"), utils.Plural(res.Failed, "link"))
		return nil
	},
}

// formatItem prints the input text and the rendered result, or the reason
// it failed.
func formatItem(item batch.Item, format output.Format, delimiter string) string {
	switch st := item.State.(type) {
	case conversion.Succeeded:
		out, err := output.Render(format, st.Position)
		if err != nil {
			return item.Text + delimiter + "error: " + err.Error()
		}
		return item.Text + delimiter + out
	case conversion.Failed:
		return item.Text + delimiter + "error: " + st.Kind.String()
	}
	return item.Text + delimiter + "error: " + conversion.Name(item.State)
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("format", "f", "geo", "Output format: "+formatList())
	batchCmd.Flags().IntP("concurrency", "c", 5, "Number of concurrent conversions")
	batchCmd.Flags().BoolP("yes", "y", false, "Allow network access without asking")
	batchCmd.Flags().StringP("delimiter", "d", "\t", "Delimiter between the input text and the result")
}
