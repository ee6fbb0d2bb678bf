package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/transform"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
	graphio "github.com/matzehuels/stackorder/pkg/io"
)

// inputFlags are shared by every command that reads a graph file.
type inputFlags struct {
	nodes  string // comma-separated working set; overrides the file's
	format string // json or toml; inferred from the extension when empty
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.nodes, "nodes", "n", "", "comma-separated working set (default: nodes listed in the file, else every node)")
	cmd.Flags().StringVar(&f.format, "format", "", "input format: json or toml (default: from extension; json for stdin)")
}

// load reads path ("-" for stdin), applies the --nodes override and then
// validates the resulting working set.
func (f *inputFlags) load(path string) (*graphio.Input, error) {
	var (
		in  *graphio.Input
		err error
	)
	switch {
	case path == "-":
		format := graphio.FormatJSON
		if f.format != "" {
			if format, err = graphio.ParseFormat(f.format); err != nil {
				return nil, err
			}
		}
		in, err = graphio.DecodeInput(os.Stdin, format)
	case f.format != "":
		in, err = readFileAs(path, f.format)
	default:
		in, err = graphio.DecodeFile(path)
	}
	if err != nil {
		return nil, err
	}
	if nodes := parseNodeList(f.nodes); nodes != nil {
		for _, id := range nodes {
			if err := apperrors.ValidateNodeID(id); err != nil {
				return nil, err
			}
		}
		in.Nodes = nodes
		return in, nil
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func readFileAs(path, format string) (*graphio.Input, error) {
	ft, err := graphio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return graphio.DecodeInput(file, ft)
}

// workingSetGraph is the input's graph restricted to its working set, with
// node metadata kept.
func workingSetGraph(in *graphio.Input) *dag.Graph {
	return transform.Restrict(in.Graph(), in.Nodes)
}
