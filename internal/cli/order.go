package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/dag/order"
	graphio "github.com/matzehuels/stackorder/pkg/io"
	"github.com/matzehuels/stackorder/pkg/pipeline"
)

// orderOpts holds the flags of the order command.
type orderOpts struct {
	input       inputFlags
	breakCycles bool
	layers      bool
	json        bool
	noCache     bool
	refresh     bool
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order [file]",
		Short: "Print a dependency-respecting order for a working set",
		Long: `Order reads an adjacency document (JSON or TOML, "-" for stdin) and prints
the working set so that every parent comes before its children. Edges that
touch a node outside the working set are ignored.

A cyclic working set fails and lists the nodes that could not be placed,
unless --break-cycles is given.`,
		Example: `  stackorder order graph.json
  stackorder order graph.toml --nodes api,db,cache --layers
  cat graph.json | stackorder order - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("break-cycles") {
				opts.breakCycles = c.Config.Order.BreakCycles
			}
			return c.runOrder(cmd, args[0], opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().BoolVar(&opts.breakCycles, "break-cycles", false, "remove back edges instead of failing on cycles")
	cmd.Flags().BoolVar(&opts.layers, "layers", false, "group the order into dependency layers")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the result as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, path string, opts orderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := opts.input.load(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Order(ctx, pipeline.Request{
		Adjacency:   in.Adjacency,
		Nodes:       in.Nodes,
		BreakCycles: opts.breakCycles,
		Layers:      opts.layers,
		Refresh:     opts.refresh,
		TTL:         c.Config.Cache.TTL.Duration,
	})
	if err != nil {
		reportCycle(err)
		return err
	}

	doc := graphio.OrderDocument{Order: res.Order, Layers: res.Layers, RemovedEdges: res.RemovedEdges}
	if err := graphio.WriteOrder(cmd.OutOrStdout(), doc, opts.json); err != nil {
		return fmt.Errorf("write order: %w", err)
	}

	if !opts.json {
		printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Cached)
		for _, e := range res.RemovedEdges {
			printWarning("removed edge %s %s %s to break a cycle", e.From, iconArrow, e.To)
		}
	}
	prog.done(fmt.Sprintf("Ordered %d nodes", len(res.Order)))
	return nil
}

// reportCycle prints the unresolved nodes of a cycle error, if err is one.
func reportCycle(err error) {
	var ce *order.CycleError
	if !errors.As(err, &ce) {
		return
	}
	printError("%d node(s) could not be ordered", len(ce.Unresolved))
	printDetail("unresolved: %s", strings.Join(ce.Unresolved, ", "))
	if len(ce.Cycle) > 0 {
		path := append(append([]string{}, ce.Cycle...), ce.Cycle[0])
		printDetail("cycle: %s", strings.Join(path, " "+iconArrow+" "))
	}
	printDetail("rerun with --break-cycles to drop back edges")
}
