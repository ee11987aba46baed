package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutok.dev/pkg/mutok/internal/domain"
	m "mutok.dev/pkg/mutok/internal/model"
)

var windowsCountFlag int
var windowsTrainingFlag bool
var windowsSizeFlag int

// windowsCmd represents the windows command.
var windowsCmd = newWindowsCmd()

func newWindowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows <corpus> <fold>",
		Short: "Print training windows of a fold",
		Long: `Print the first windows produced by cycling the files of a fold. Each line
shows the context tokens followed by "=>" and the target token.

With --training every fold except the given one is cycled instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold, err := parseFold(args[1])
			if err != nil {
				return err
			}

			vocab, err := loadVocabulary()
			if err != nil {
				return err
			}

			return workflow.Windows(cmd.Context(), domain.WindowsArgs{
				Corpus:     m.Path(args[0]),
				Vocabulary: vocab,
				Fold:       fold,
				Training:   windowsTrainingFlag,
				WindowSize: viper.GetInt(windowSizeKey),
				Count:      windowsCountFlag,
			})
		},
	}

	configureWindowsFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}

func configureWindowsFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&windowsCountFlag, countFlagName, "n", defaultWindowCount, "number of windows to print")
	cmd.Flags().BoolVarP(&windowsTrainingFlag, trainingFlagName, "t", false, "cycle the training folds instead of the given fold")

	cmd.Flags().IntVarP(&windowsSizeFlag, windowSizeFlagName, "w", viper.GetInt(windowSizeKey), "context tokens per window")
	bindFlagToConfig(cmd.Flags().Lookup(windowSizeFlagName), windowSizeKey)
}

func parseFold(arg string) (int, error) {
	fold, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: fold %q is not a number", domain.ErrConfiguration, arg)
	}

	return fold, nil
}
