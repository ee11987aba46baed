package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutok.dev/pkg/mutok/internal/domain"
	m "mutok.dev/pkg/mutok/internal/model"
)

// mutateCmd represents the mutate command.
var mutateCmd = newMutateCmd()

func newMutateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutate <corpus> <hash> <kind>",
		Short: "Print one random mutation of a corpus file",
		Long: `Sample one mutation of the given kind (insertion, deletion or substitution)
for the file with the given hash and print the mutated token text.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := m.ParseMutationKind(args[2])
			if err != nil {
				return err
			}

			vocab, err := loadVocabulary()
			if err != nil {
				return err
			}

			return workflow.Mutate(cmd.Context(), domain.MutateArgs{
				Corpus:     m.Path(args[0]),
				Vocabulary: vocab,
				Hash:       args[1],
				Kind:       kind,
				Seed:       viper.GetUint64(runSeedKey),
				Output:     cmd.OutOrStdout(),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(mutateCmd)
}
