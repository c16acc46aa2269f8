package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gostatml/go-arow/arow"
)

func (c *CLI) newMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <output> <model> <model> [model...]",
		Short: "Average independently trained models into one",
		Long: `Merge folds two or more model files into a single model by repeated
pairwise averaging of mean weights and variances. All inputs must share the
same feature dimension; the regularization strength of the first model wins.`,
		Args: cobra.MinimumNArgs(3),
		Example: `  arow merge model.bin shard0.bin shard1.bin
  arow merge model.bin shard*.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, inPaths := args[0], args[1:]

			merged, err := arow.LoadFile(inPaths[0])
			if err != nil {
				return err
			}
			for _, path := range inPaths[1:] {
				next, err := arow.LoadFile(path)
				if err != nil {
					return err
				}
				if err := merged.MergeInto(next); err != nil {
					return err
				}
			}

			if err := merged.SaveFile(outPath); err != nil {
				return err
			}
			slog.Info("Merged models", "inputs", len(inPaths), "output", outPath)
			return nil
		},
	}
	return cmd
}
