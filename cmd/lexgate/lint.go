package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meridian-hq/lexgate/pkg/cli"
	"meridian-hq/lexgate/pkg/statute/source"
)

var lintFlags struct {
	file   string
	dir    string
	format string
	watch  bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate statute catalog files",
	Long: `Validate statute catalog files for syntax and semantic errors.

The lint command loads catalog files and performs full validation:
  - YAML syntax validation
  - Statute schema validation (effect types, condition types, operators)
  - Duplicate and missing statute ids
  - Supersedes/delegates relation cycle detection

Examples:
  # Lint a single catalog file
  lexgate lint --file statutes.yaml

  # Lint a catalog directory
  lexgate lint --dir statutes/

  # JSON output for CI/CD
  lexgate lint --file statutes.yaml --format json`,
	RunE: lintCatalog,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "catalog file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of catalog files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
	lintCmd.Flags().BoolVarP(&lintFlags.watch, "watch", "w", false, "keep validating on file changes")
}

// LintResult is the validation result for one catalog path.
type LintResult struct {
	Path     string `json:"path"`
	Valid    bool   `json:"valid"`
	Statutes int    `json:"statutes"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func lintCatalog(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}
	if lintFlags.file != "" && lintFlags.dir != "" {
		return fmt.Errorf("--file and --dir are mutually exclusive")
	}

	path := lintFlags.file
	if path == "" {
		path = lintFlags.dir
	}

	result := LintResult{Path: path, Valid: true}
	set, err := source.NewLoader(nil, nil).Load(path)
	if err != nil {
		result.Valid = false
		result.Error = err.Error()
		var schemaErr *source.SchemaError
		var loadErr *source.LoadError
		switch {
		case errors.As(err, &schemaErr):
			result.Kind = "schema"
		case errors.As(err, &loadErr):
			result.Kind = "load"
		}
	} else {
		result.Statutes = set.Len()
	}

	if lintFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, result); err != nil {
			return err
		}
	} else {
		fmt.Printf("Validating %s...\n", result.Path)
		if result.Valid {
			fmt.Printf("✓ %d statute(s) loaded\n", result.Statutes)
			fmt.Println("✓ Relation graph acyclic")
		} else {
			fmt.Printf("✗ Error: %s\n", result.Error)
		}
	}

	if !result.Valid {
		return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
	}

	if lintFlags.watch {
		return watchCatalog(path)
	}
	return nil
}

// watchCatalog revalidates the catalog on every file change until
// interrupted. A failing revision is reported and the last good catalog
// stays loaded.
func watchCatalog(path string) error {
	catalog, err := source.NewCatalog(source.NewLoader(nil, nil), path, nil)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	watcher, err := source.NewWatcher(catalog, nil, nil)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	defer func() { _ = watcher.Stop() }()

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)...\n", path)
	ctx := cli.SetupSignalHandler()
	return watcher.Watch(ctx)
}
