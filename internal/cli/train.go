package cli

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/gostatml/go-arow/arow"
	"github.com/gostatml/go-arow/dataset"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var (
		dimension int
		r         float64
		epochs    int
		shards    int
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "train <datafile> <modelfile>",
		Short: "Train a model on labeled sparse-feature data",
		Args:  cobra.ExactArgs(2),
		Example: `  arow train train.dat model.bin
  arow train --dimension 1048576 --r 0.5 --epochs 3 train.dat.gz model.bin
  arow train --shards 4 train.dat model.bin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPath, modelPath := args[0], args[1]

			examples, inferred, err := dataset.ReadFile(dataPath)
			if err != nil {
				return err
			}
			if len(examples) == 0 {
				return fmt.Errorf("no examples in %s", dataPath)
			}
			if dimension == 0 {
				dimension = inferred
			}
			slog.Info("Training", "examples", len(examples), "dimension", dimension, "r", r, "epochs", epochs, "shards", shards)

			if shards > 1 && epochs > 1 {
				return fmt.Errorf("--shards and --epochs are mutually exclusive: sharded training is single-pass per worker")
			}

			rng := rand.New(rand.NewSource(seed))
			start := time.Now()

			var model *arow.Classifier
			if shards > 1 {
				dataset.Shuffle(rng, examples)
				var mistakes int
				model, mistakes, err = arow.TrainShards(cmd.Context(), dimension, dataset.Split(examples, shards), arow.WithR(r))
				if err != nil {
					return err
				}
				slog.Debug("Sharded pass completed", "mistakes", mistakes,
					"error-rate", float64(mistakes)/float64(len(examples)))
			} else {
				model, err = arow.New(dimension, arow.WithR(r))
				if err != nil {
					return err
				}
				for epoch := 0; epoch < epochs; epoch++ {
					dataset.Shuffle(rng, examples)
					mistakes, err := model.Fit(examples)
					if err != nil {
						return err
					}
					slog.Debug("Epoch completed", "epoch", epoch+1, "mistakes", mistakes,
						"error-rate", float64(mistakes)/float64(len(examples)))
				}
			}
			slog.Debug("Training completed", "duration", time.Since(start))

			if err := model.SaveFile(modelPath); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath)
			return nil
		},
	}

	cmd.Flags().IntVarP(&dimension, "dimension", "d", 0, "Feature dimension (0 = infer from data)")
	cmd.Flags().Float64VarP(&r, "r", "r", arow.DefaultR, "Regularization strength")
	cmd.Flags().IntVarP(&epochs, "epochs", "e", 1, "Number of training passes")
	cmd.Flags().IntVarP(&shards, "shards", "j", 1, "Parallel shards trained independently and averaged")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Shuffle seed")
	return cmd
}
