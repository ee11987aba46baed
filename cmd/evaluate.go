package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/domain"
	m "mutok.dev/pkg/mutok/internal/model"
)

var evaluateMutationsFlag int
var evaluateFoldFlag int
var evaluateMaxAttemptsFlag int
var evaluateParallelFlag int
var evaluateReportFlag string

// evaluateCmd represents the evaluate command.
var evaluateCmd = newEvaluateCmd()

const evaluateLongDescription = `Evaluate a defect-localization model on one fold of the corpus.

For every file of the fold and every mutation kind (insertion, deletion,
substitution), random mutations are rendered to a temporary file and given to
the model. Files the model accepts are not scored; for the others the model's
ranked detections are searched for the mutated position and the reciprocal
rank is recorded. Mean reciprocal rank is reported per kind.

The model is a command line. It is run as "<model> check <file>", exiting 0
when the file looks correct and 1 when it does not, and as
"<model> detect <file>", printing a YAML list of {position, score}.`

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <corpus> <model>",
		Short: "Score a model against random mutations of one fold",
		Long:  evaluateLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab, err := loadVocabulary()
			if err != nil {
				return err
			}

			model, err := adapter.NewCommandModelAdapter(args[1])
			if err != nil {
				return err
			}

			return workflow.Evaluate(cmd.Context(), domain.EvaluateArgs{
				Corpus:      m.Path(args[0]),
				Model:       model,
				Vocabulary:  vocab,
				Fold:        viper.GetInt(evaluateFoldKey),
				Mutations:   evaluateMutationsFlag,
				MaxAttempts: viper.GetInt(maxAttemptsKey),
				Threads:     viper.GetInt(runParallelConfigKey),
				Seed:        viper.GetUint64(runSeedKey),
				Report:      m.Path(viper.GetString(reportPathKey)),
			})
		},
	}

	configureEvaluateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func configureEvaluateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&evaluateMutationsFlag, mutationsFlagName, "k", domain.DefaultMutationsPerKind, "scored mutations per file and kind")

	cmd.Flags().IntVarP(&evaluateFoldFlag, foldFlagName, "f", viper.GetInt(evaluateFoldKey), "fold to evaluate (0-9)")
	bindFlagToConfig(cmd.Flags().Lookup(foldFlagName), evaluateFoldKey)

	cmd.Flags().IntVar(&evaluateMaxAttemptsFlag, maxAttemptsFlagName, viper.GetInt(maxAttemptsKey), "mutation draws per file and kind before giving up (0 = 10x mutations)")
	bindFlagToConfig(cmd.Flags().Lookup(maxAttemptsFlagName), maxAttemptsKey)

	cmd.Flags().IntVarP(&evaluateParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of files evaluated in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVarP(&evaluateReportFlag, reportFlagName, "r", viper.GetString(reportPathKey), "write a YAML summary to this path")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportPathKey)
}
