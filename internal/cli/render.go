package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/order"
	"github.com/matzehuels/stackorder/pkg/dag/transform"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
	graphio "github.com/matzehuels/stackorder/pkg/io"
	"github.com/matzehuels/stackorder/pkg/render/nodelink"
)

// Output formats for the render command.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input       inputFlags
	output      string // output file; the extension picks the format, empty writes DOT to stdout
	format      string // explicit output format, overrides the extension
	detailed    bool   // depth and metadata in labels
	rank        bool   // align nodes of equal depth
	reduce      bool   // drop transitive edges before drawing
	breakCycles bool   // remove back edges instead of failing
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{rank: true}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the ordered working set as DOT or SVG",
		Long: `Render restricts the graph to the working set, orders it and writes a
Graphviz node-link diagram. Each node is labelled with its position in the
order. The output format follows the -o extension (.dot, .svg or .json);
json writes the restricted graph itself, after --reduce and --break-cycles.`,
		Example: `  stackorder render graph.json -o graph.svg
  stackorder render graph.toml --nodes a,b,c --reduce > graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("break-cycles") {
				opts.breakCycles = c.Config.Order.BreakCycles
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot, .svg or .json; default: DOT to stdout)")
	cmd.Flags().StringVarP(&opts.format, "type", "t", "", "output format: dot, svg or json (default: from extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show depth and metadata in node labels")
	cmd.Flags().BoolVar(&opts.rank, "rank", opts.rank, "align nodes of equal depth on one rank")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "hide edges implied by longer paths")
	cmd.Flags().BoolVar(&opts.breakCycles, "break-cycles", false, "remove back edges instead of failing on cycles")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := renderFormat(opts.output, opts.format)
	if err != nil {
		return err
	}

	in, err := opts.input.load(path)
	if err != nil {
		return err
	}

	sub := workingSetGraph(in)
	var removed []dag.Edge
	if opts.breakCycles {
		removed = transform.BreakCycles(sub)
	}
	ordered, err := order.Sort(sub.Adjacency(), sub.NodeIDs())
	if err != nil {
		reportCycle(err)
		return err
	}
	if opts.reduce {
		n := transform.TransitiveReduction(sub)
		logger.Debug("transitive reduction", "removed", n)
	}
	for _, e := range removed {
		printWarning("removed edge %s %s %s to break a cycle", e.From, iconArrow, e.To)
	}

	dotOpts := nodelink.Options{Detailed: opts.detailed, RankByDepth: opts.rank}
	var data []byte
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(sub, &buf); err != nil {
			return err
		}
		data = buf.Bytes()
	case formatSVG:
		dot := nodelink.ToDOT(sub, ordered, dotOpts)
		spin := newSpinnerWithContext(ctx, "Rendering SVG...")
		spin.Start()
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			spin.StopWithError("SVG rendering failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spin.Stop()
	default:
		data = []byte(nodelink.ToDOT(sub, ordered, dotOpts))
	}

	if opts.output == "" || opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %d nodes", sub.NodeCount())
	printFile(opts.output)
	return nil
}

// renderFormat picks the output format from an explicit name or the
// output file's extension.
func renderFormat(output, explicit string) (string, error) {
	f := strings.ToLower(explicit)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch f {
	case "", "gv", formatDOT:
		return formatDOT, nil
	case formatSVG:
		return formatSVG, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeUnsupported, "unsupported output format %q (want dot, svg or json)", f)
	}
}
