// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/session"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// MODELS COMMAND
// =============================================================================

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models installed on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := a.newBackend(a.cfg)
			defer b.Close()

			models, err := b.ListModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			printModelTable(cmd.OutOrStdout(), models, a.cfg.Ollama.Model)
			return nil
		},
	}
}

// printModelTable prints one row per model, marking current with "*".
func printModelTable(w io.Writer, models []session.ModelSummary, current string) {
	if len(models) == 0 {
		fmt.Fprintln(w, styles.RenderWarning("No models installed. Pull one with: ollama pull llama3.2"))
		return
	}

	nameWidth := len("NAME")
	for _, m := range models {
		if n := util.StringWidth(m.Name); n > nameWidth {
			nameWidth = n
		}
	}

	fmt.Fprintln(w, styles.Dim.Render("  "+util.PadRight("NAME", nameWidth)+"  "+util.PadRight("SIZE", 10)+"  PARAMS"))
	for _, m := range models {
		marker := "  "
		name := util.PadRight(m.Name, nameWidth)
		if hasModel([]string{m.Name}, current) {
			marker = "* "
			name = styles.Command.Render(name)
		}
		fmt.Fprintf(w, "%s%s  %s  %s\n", marker, name, util.PadRight(m.Size, 10), m.ParameterSize)
	}
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Encode(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a config file with default values",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Wrote "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

// configPath is --config when given, else the default location.
func (a *app) configPath() (string, error) {
	if a.flags.configPath != "" {
		return a.flags.configPath, nil
	}
	return config.Path()
}

// =============================================================================
// VERSION COMMAND
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rigchat %s\n", Version)
			fmt.Fprintf(w, "  commit: %s\n", GitCommit)
			fmt.Fprintf(w, "  built:  %s\n", BuildDate)
			fmt.Fprintf(w, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
