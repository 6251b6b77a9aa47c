package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/typedcrf"
	"github.com/happyhackingspace/typedcrf/crf"
)

func (c *CLI) newLayoutCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "layout <model>",
		Short: "Show the joint feature vector layout of a model",
		Args:  cobra.ExactArgs(1),
		Example: `  typedcrf layout model.yaml
  typedcrf layout model.yaml --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := typedcrf.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			layout := enc.Layout()
			switch format {
			case "json":
				return writeJSON(out, layout)
			case "yaml":
				e := yaml.NewEncoder(out)
				e.SetIndent(2)
				if err := e.Encode(layout); err != nil {
					return err
				}
				return e.Close()
			case "text":
				fmt.Fprintln(out, enc.Model())
				printLayout(out, layout)
				return nil
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

func printLayout(w io.Writer, l crf.Layout) {
	fmt.Fprintf(w, "\nUnary (%d)\n", l.UnarySize)
	fmt.Fprintf(w, "  %-12s %8s %8s %8s\n", "type", "offset", "states", "features")
	for _, b := range l.Unary {
		fmt.Fprintf(w, "  %-12s %8d %8d %8d\n", b.Type, b.Offset, b.States, b.Features)
	}
	fmt.Fprintf(w, "\nPairwise (%d, %s)\n", l.PairwiseSize, l.Order)
	fmt.Fprintf(w, "  %-12s %-12s %8s %8s %8s\n", "from", "to", "offset", "features", "states")
	for _, b := range l.Pairwise {
		fmt.Fprintf(w, "  %-12s %-12s %8d %8d %8s\n", b.From, b.To, b.Offset, b.EdgeFeatures,
			fmt.Sprintf("%dx%d", b.FromStates, b.ToStates))
	}
	fmt.Fprintf(w, "\nTotal: %d\n", l.Size)
}
