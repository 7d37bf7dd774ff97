package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/SoiletsAce/ContentSync/internal/mapping"
)

func newResolveCmd(g *globalFlags) *cobra.Command {
	var (
		langs []string
		root  string
	)
	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Show where a canonical document's translations are expected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			tables := cfg.Tables()

			if !cmd.Flags().Changed("lang") && len(cfg.Defaults.Languages) > 0 {
				langs = cfg.Defaults.Languages
			}
			if len(langs) == 0 {
				langs = mapping.Languages
			}
			targets, err := mapping.ParseLanguages(langs, tables.Canonical)
			if err != nil {
				return fmt.Errorf("invalid --lang: %w", err)
			}

			src, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if root == "" {
				root, err = projectRoot(src, tables.Canonical)
				if err != nil {
					return err
				}
			}

			failed := printResolutions(cmd.OutOrStdout(), mapping.NewResolver(tables), src, root, targets)
			if failed > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "target languages, comma separated (default: all known translations)")
	cmd.Flags().StringVar(&root, "root", "", "project root (default: parent of the canonical folder containing <file>)")
	return cmd
}

// printResolutions writes one row per language and returns the number of
// languages that could not be resolved.
func printResolutions(w io.Writer, r *mapping.Resolver, src, root string, langs []string) int {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("LANG", "VIA", "TARGET", "STATE")
	failed := 0
	for _, lang := range langs {
		res := r.Resolve(src, root, lang)
		if !res.OK() {
			failed++
			t.Row(lang, res.Source.String(), fmt.Sprint(res.Err), "")
			continue
		}
		state := "exists"
		if _, err := os.Stat(res.Path); err != nil {
			state = "missing"
		}
		t.Row(lang, res.Source.String(), res.Path, state)
	}
	fmt.Fprintln(w, t.Render())
	return failed
}

// projectRoot returns the parent of the nearest ancestor of path named
// canonical.
func projectRoot(path, canonical string) (string, error) {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if filepath.Base(dir) == canonical {
			return filepath.Dir(dir), nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return "", errors.New("cannot find the project root: " + path + " is not inside a " + canonical + "/ folder; use --root")
}
