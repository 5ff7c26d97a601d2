package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"github.com/volatiletech/strmangle"

	"github.com/jvanasco/sqlschema"
	"github.com/jvanasco/sqlschema/introspect"
	"github.com/jvanasco/sqlschema/schemafile"
)

func namesCommand() *cli.Command {
	return &cli.Command{
		Name:  "names",
		Usage: "Print the resolved constraint and index names for a schema definition",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print entries as JSON",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Override a convention entry as `KEY=TEMPLATE`, repeatable",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and re-print whenever the schema definition changes",
			},
		},
		Action: runNames,
	}
}

func runNames(c *cli.Context) error {
	overrides, err := parseOverrides(c.StringSlice("set"))
	if err != nil {
		return err
	}

	path := c.String("config")
	if err := printNames(c, path, overrides); err != nil {
		if !c.Bool("watch") {
			return err
		}
		// In watch mode a broken definition is something to fix and save,
		// not a reason to exit.
		fmt.Fprintln(c.App.ErrWriter, "schemalint:", err)
	}

	if !c.Bool("watch") {
		return nil
	}

	return watchNames(c, path, overrides)
}

func printNames(c *cli.Context, path string, overrides map[string]string) error {
	spec, err := schemafile.Load(path)
	if err != nil {
		return err
	}

	m, err := schemafile.Build(spec.WithNaming(overrides))
	if err != nil {
		return err
	}

	entries, err := introspect.Expected(m)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		out, err := json.MarshalIndent(entries, "", "\t")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(out))

		return nil
	}

	return writeNameTable(c.App.Writer, entries)
}

func writeNameTable(w io.Writer, entries []introspect.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tKIND\tCOLUMNS\tNAME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Table, kindLabel(e.Kind), strings.Join(e.Columns, ", "), e.Name)
	}

	return tw.Flush()
}

// kindLabel renders a constraint category for the table output:
// primary_key becomes PrimaryKey.
func kindLabel(kind sqlschema.Kind) string {
	return strmangle.TitleCase(string(kind))
}

func parseOverrides(sets []string) (map[string]string, error) {
	if len(sets) == 0 {
		return nil, nil
	}

	overrides := make(map[string]string, len(sets))
	for _, set := range sets {
		key, tmpl, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--set wants KEY=TEMPLATE, got %q", set)
		}
		overrides[key] = tmpl
	}

	return overrides, nil
}

// watchNames re-prints the names whenever the definition file changes.
// The directory is watched rather than the file because editors often
// replace the file instead of writing it in place.
func watchNames(c *cli.Context, path string, overrides map[string]string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Debounce mechanism to avoid reloading on every write of a burst.
	var reloadTimer *time.Timer
	const debounceDelay = 500 * time.Millisecond

	base := filepath.Base(path)
	for {
		select {
		case <-c.Context.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename {

				if reloadTimer != nil {
					reloadTimer.Stop()
				}

				reloadTimer = time.AfterFunc(debounceDelay, func() {
					if err := printNames(c, path, overrides); err != nil {
						fmt.Fprintln(c.App.ErrWriter, "schemalint:", err)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(c.App.ErrWriter, "schemalint: watch:", err)
		}
	}
}
