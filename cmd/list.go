package cmd

import (
	"github.com/spf13/cobra"

	"mutok.dev/pkg/mutok/internal/domain"
	m "mutok.dev/pkg/mutok/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <corpus>",
		Short: "List the folds of a corpus and their file counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{Corpus: m.Path(args[0])})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
