package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/geoshare/internal/utils"
	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/output"
	"github.com/sw33tLie/geoshare/pkg/permissions"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [text]",
	Short: "Convert a shared map link or coordinates",
	Long: `Convert a shared map link or coordinates. The text can be a whole message with a link in it.
Without arguments the text is read from stdin.

When the link needs network access you are asked first: answer y(es), n(o), always or never.
always and never are remembered.`,
	Example: `  geoshare convert https://maps.app.goo.gl/TmbeHMiLEfTBws9EA
  geoshare convert -f google 'geo:52.47254,13.4345?z=11'
  echo '52.5163, 13.3777' | geoshare convert --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		asJSON, _ := cmd.Flags().GetBool("json")
		yes, _ := cmd.Flags().GetBool("yes")
		if asJSON {
			formatFlag = string(output.FormatJSON)
		}
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		interactive := len(args) > 0
		if text == "" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			text = string(b)
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("nothing to convert")
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var state conversion.State
		switch {
		case yes:
			s.env.Prompter = conversion.PrompterFunc(func(context.Context, conversion.Request) (conversion.Decision, error) {
				return conversion.Decision{Granted: true}, nil
			})
			state = conversion.Run(ctx, &s.env, text)
		case interactive:
			state = convertInteractive(ctx, conversion.NewConverter(s.env), text, os.Stdin, os.Stderr)
		default:
			// stdin carried the text, nobody is left to answer.
			s.env.Prompter = conversion.DenyPrompter
			state = conversion.Run(ctx, &s.env, text)
		}
		s.record(ctx, text, state)

		switch st := state.(type) {
		case conversion.Succeeded:
			utils.Log.Debugf("Converted with %s: %s", st.Input.Name(), st.URI.String(nil))
			out, err := output.Render(format, st.Position)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		case conversion.Failed:
			return st
		}
		return fmt.Errorf("conversion stopped in state %s", conversion.Name(state))
	},
}

// convertInteractive runs the conversion and answers its permission prompts
// from in.
func convertInteractive(ctx context.Context, conv *conversion.Converter, text string, in io.Reader, out io.Writer) conversion.State {
	done := make(chan struct{})
	defer close(done)
	lines := scanLines(in, done)

	result := conv.Start(ctx, text)
	for {
		select {
		case state := <-result:
			return state
		case p := <-conv.Prompts():
			fmt.Fprintf(out, "%s [y/N/always/never] ", promptText(p.Request))
			select {
			case line, ok := <-lines:
				if !ok {
					p.Deny(false)
					continue
				}
				p.Reply(conversion.ParseDecision(line))
			case <-ctx.Done():
				conv.Cancel()
				return <-result
			}
		}
	}
}

// scanLines sends the lines of in until it runs out or done is closed, then
// closes the returned channel.
func scanLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func promptText(req conversion.Request) string {
	switch req.Category {
	case permissions.Unshorten:
		return fmt.Sprintf("Resolve the %s short link %s?", req.Input, req.URL)
	case permissions.FetchHTML:
		return fmt.Sprintf("Download %s to find the location?", req.URL)
	}
	return fmt.Sprintf("Allow %s for %s?", req.Category, req.URL)
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("format", "f", "geo", "Output format: "+formatList())
	convertCmd.Flags().Bool("json", false, "Print the position as JSON (same as --format json)")
	convertCmd.Flags().BoolP("yes", "y", false, "Allow network access for this conversion without asking")
}

func formatList() string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
