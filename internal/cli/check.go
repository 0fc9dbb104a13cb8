package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizbot/internal/bank"
)

// NewCheckCmd validates a questions file without starting the server, so
// quiz authors can lint their edits before deploying.
func NewCheckCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "check <questions.json>",
		Short: "Validate a question bank file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bank.Load(args[0], interactive)
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d questions\n", b.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&interactive, "interactive", false, "check against the interactive-mode button limit")
	return cmd
}
