package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/spf13/cobra"

	"github.com/sw33tLie/geoshare/pkg/inputs"
	"github.com/sw33tLie/geoshare/pkg/registry"
)

// inputsCmd represents the inputs command
var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "List the supported map services",
	RunE: func(cmd *cobra.Command, args []string) error {
		asMarkdown, _ := cmd.Flags().GetBool("markdown")
		asHTML, _ := cmd.Flags().GetBool("html")
		reg := registry.Default()

		switch {
		case asHTML:
			p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
			os.Stdout.Write(markdown.ToHTML([]byte(reg.Markdown()), p, nil))
			return nil
		case asMarkdown:
			fmt.Print(reg.Markdown())
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tSERVICE\tNETWORK\tEXAMPLE\t")
		for _, in := range reg.Inputs() {
			doc := in.Documentation()
			example := ""
			if len(doc.Examples) > 0 {
				example = doc.Examples[0]
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", in.Name(), doc.Title, networkUse(in, doc), example)
		}
		w.Flush()
		return nil
	},
}

// networkUse says which network features an input may need.
func networkUse(in inputs.Input, doc inputs.Documentation) string {
	var uses []string
	if _, ok := in.(inputs.ShortLinker); ok && len(doc.ShortLinks) > 0 {
		uses = append(uses, "short links")
	}
	if _, ok := in.(inputs.HTMLParser); ok {
		uses = append(uses, "web page")
	}
	if len(uses) == 0 {
		return "-"
	}
	return strings.Join(uses, ", ")
}

func init() {
	rootCmd.AddCommand(inputsCmd)
	inputsCmd.Flags().Bool("markdown", false, "Print the documentation as markdown")
	inputsCmd.Flags().Bool("html", false, "Print the documentation as HTML")
}
