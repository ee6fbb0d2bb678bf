package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
	"github.com/matzehuels/stackorder/pkg/settings"
)

// settingsCommand creates the settings command group.
func (c *CLI) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Work with tool-settings files",
	}
	cmd.AddCommand(c.settingsNormalizeCommand())
	return cmd
}

// settingsNormalizeCommand creates the "settings normalize" subcommand.
func (c *CLI) settingsNormalizeCommand() *cobra.Command {
	var outFormat string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the canonical form of a settings file",
		Long: `Normalize reads tool settings (JSON or TOML, "-" for stdin), clamps numeric
values into range, fills in defaults, migrates a legacy single connector into
the connectors list and prints the result. Normalizing the output again
yields the same output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s   settings.Settings
				err error
			)
			if args[0] == "-" {
				s, err = settings.Parse(os.Stdin, "json")
			} else {
				s, err = loadSettingsFile(args[0])
			}
			if err != nil {
				return err
			}
			return writeSettings(cmd.OutOrStdout(), s, outFormat)
		},
	}

	cmd.Flags().StringVar(&outFormat, "to", "json", "output format: json or toml")
	return cmd
}

// loadSettingsFile parses a settings file, choosing the format by extension.
func loadSettingsFile(path string) (settings.Settings, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return settings.Settings{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return settings.Settings{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	format := "json"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".toml" || ext == ".tml" {
		format = "toml"
	}
	return settings.Parse(f, format)
}

func writeSettings(w io.Writer, s settings.Settings, format string) error {
	switch strings.ToLower(format) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "toml":
		return toml.NewEncoder(w).Encode(s.Raw())
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported output format %q (want json or toml)", format)
	}
}
