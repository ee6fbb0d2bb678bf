package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/dag/order"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		input    inputFlags
		orderStr string
	)

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate an order against the graph",
		Long: `Check verifies that --order is a permutation of the working set in which every
in-set edge points forward. Without --nodes and without a working set in the
file, every node of the graph is expected.`,
		Example: `  stackorder check graph.json --order api,db,cache`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ordered := parseNodeList(orderStr)
			if ordered == nil {
				return errors.New("--order is required")
			}
			in, err := input.load(args[0])
			if err != nil {
				return err
			}
			if err := order.Check(in.Adjacency, in.Nodes, ordered); err != nil {
				var ve *order.ViolationError
				if errors.As(err, &ve) {
					printError("%s must come before %s", ve.From, ve.To)
				}
				return err
			}
			printSuccess("Order is valid (%d nodes)", len(ordered))
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVar(&orderStr, "order", "", "comma-separated order to validate (required)")
	return cmd
}
