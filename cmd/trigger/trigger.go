package trigger

import (
	"context"

	"github.com/caesium-cloud/triggerkit/internal/wizard"
	"github.com/caesium-cloud/triggerkit/pkg/client"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for trigger operations.
var Cmd = &cobra.Command{
	Use:   "trigger",
	Short: "Manage pipeline triggers",
}

func init() {
	Cmd.AddCommand(lintCmd, diffCmd, applyCmd, getCmd, listCmd, enableCmd, disableCmd, deleteCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newWizard() (*wizard.Wizard, *client.Client, error) {
	c, err := client.FromEnvironment()
	if err != nil {
		return nil, nil, err
	}
	return wizard.New(c), c, nil
}
