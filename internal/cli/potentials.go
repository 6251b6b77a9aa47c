package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/typedcrf"
)

func (c *CLI) newPotentialsCommand() *cobra.Command {
	var dataPath string
	var weightsPath string
	var unary bool

	cmd := &cobra.Command{
		Use:   "potentials <model>",
		Short: "Compute per-edge pairwise potentials under a weight vector",
		Args:  cobra.ExactArgs(1),
		Example: `  typedcrf potentials model.yaml --data samples.json --weights weights.json
  typedcrf potentials model.yaml --data samples.json --weights weights.json --unary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := typedcrf.Load(args[0])
			if err != nil {
				return err
			}
			w, err := enc.LoadWeights(weightsPath)
			if err != nil {
				return err
			}
			results, err := enc.Potentials(dataPath, w, unary)
			if err != nil {
				return err
			}
			slog.Debug("Potentials computed", "samples", len(results))
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "samples.json", "Path to the dataset file")
	cmd.Flags().StringVar(&weightsPath, "weights", "weights.json", "Weight vector (JSON array)")
	cmd.Flags().BoolVar(&unary, "unary", false, "Include unary potentials")
	return cmd
}
