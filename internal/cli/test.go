package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gostatml/go-arow/arow"
	"github.com/gostatml/go-arow/dataset"
)

func (c *CLI) newTestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <modelfile> <datafile>",
		Short: "Evaluate model accuracy on held-out data",
		Args:  cobra.ExactArgs(2),
		Example: `  arow test model.bin test.dat
  arow test model.bin test.dat.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, dataPath := args[0], args[1]

			model, err := arow.LoadFile(modelPath)
			if err != nil {
				return err
			}
			examples, _, err := dataset.ReadFile(dataPath)
			if err != nil {
				return err
			}
			if len(examples) == 0 {
				return fmt.Errorf("no examples in %s", dataPath)
			}
			slog.Debug("Evaluating", "examples", len(examples), "dimension", model.Dimension())

			correct := 0
			for _, ex := range examples {
				pred, err := model.Predict(ex.Features)
				if err != nil {
					return err
				}
				if pred == ex.Label {
					correct++
				}
			}

			fmt.Printf("Accuracy: %.2f%% (%d/%d)\n",
				float64(correct)/float64(len(examples))*100, correct, len(examples))
			return nil
		},
	}
	return cmd
}
