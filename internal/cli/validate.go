package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/typedcrf"
)

func (c *CLI) newValidateCommand() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:     "validate <model>",
		Short:   "Check that every sample of a dataset fits the model",
		Args:    cobra.ExactArgs(1),
		Example: `  typedcrf validate model.yaml --data samples.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := typedcrf.Load(args[0])
			if err != nil {
				return err
			}
			slog.Debug("Validating samples", "data", dataPath)
			results, err := enc.Validate(dataPath)
			if err != nil {
				return err
			}
			invalid := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Valid() {
					fmt.Fprintf(out, "ok       %s\n", r.Name)
					continue
				}
				invalid++
				fmt.Fprintf(out, "invalid  %s: %s\n", r.Name, r.Error)
			}
			slog.Info("Validation completed", "samples", len(results), "invalid", invalid)
			if invalid > 0 {
				return fmt.Errorf("%d of %d samples are invalid", invalid, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "samples.json", "Path to the dataset file")
	return cmd
}
