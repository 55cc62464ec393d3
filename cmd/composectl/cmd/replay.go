package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-compose/compose/cmd/composectl/internal/config"
	"github.com/go-compose/compose/pkg/scenario"
)

var replayMaxPasses int

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml> [more scenarios...]",
	Short: "Replay reconciliation scenarios and print their edit scripts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := config.LoadOptional(cwd)
		if err != nil {
			return err
		}

		for i, path := range args {
			s, err := scenario.Load(path)
			if err != nil {
				return err
			}
			// Precedence: flag, then compose.yaml, then the scenario file.
			if replayMaxPasses > 0 {
				s.MaxPasses = replayMaxPasses
			} else if s.MaxPasses == 0 {
				s.MaxPasses = cfg.Replay.MaxPasses
			}
			result, err := scenario.Run(s)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Println()
			}
			fmt.Print(result.Format())
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().IntVar(&replayMaxPasses, "max-passes", 0,
		"override the recomposition pass limit per cycle")
	rootCmd.AddCommand(replayCmd)
}
