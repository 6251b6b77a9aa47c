package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/typedcrf"
)

func (c *CLI) newFeaturizeCommand() *cobra.Command {
	var dataPath string
	var weightsPath string
	var sparse bool
	var progress bool

	cmd := &cobra.Command{
		Use:   "featurize <model>",
		Short: "Compute the joint feature vector of every labeled sample",
		Args:  cobra.ExactArgs(1),
		Example: `  typedcrf featurize model.yaml --data samples.json
  typedcrf featurize model.yaml --data samples.json --sparse
  typedcrf featurize model.yaml --data samples.json --weights weights.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := typedcrf.Load(args[0])
			if err != nil {
				return err
			}
			cfg := &typedcrf.FeaturizeConfig{Sparse: sparse, Verbose: c.verbose}
			if weightsPath != "" {
				if cfg.Weights, err = enc.LoadWeights(weightsPath); err != nil {
					return err
				}
			}

			var bar *pb.ProgressBar
			if progress && !c.silent {
				cfg.Progress = func(done, total int) {
					if bar == nil {
						bar = pb.New(total).SetWriter(os.Stderr).Start()
					}
					bar.Increment()
				}
			}

			slog.Debug("Featurizing", "data", dataPath, "size", enc.Model().Size())
			start := time.Now()
			results, err := enc.Featurize(dataPath, cfg)
			if bar != nil {
				bar.Finish()
			}
			if err != nil {
				return err
			}
			slog.Debug("Featurization completed", "samples", len(results), "duration", time.Since(start))
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "samples.json", "Path to the dataset file")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "Weight vector (JSON array); adds a score to each sample")
	cmd.Flags().BoolVar(&sparse, "sparse", false, "Print sparse vectors")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar")
	return cmd
}
