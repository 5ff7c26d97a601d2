package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
	_ "modernc.org/sqlite"

	"github.com/jvanasco/sqlschema/introspect"
	"github.com/jvanasco/sqlschema/schemafile"
)

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Usage:     "Compare live constraint and index names against the schema definition",
		UsageText: "schemalint audit [options] DSN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Database driver, postgres or sqlite. Inferred from the DSN when empty",
			},
			&cli.StringSliceFlag{
				Name:  "schema",
				Usage: "Database schema to audit, repeatable. Postgres only",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print drifted names as JSON",
			},
		},
		Action: runAudit,
	}
}

func runAudit(c *cli.Context) error {
	dsn := c.Args().First()
	if dsn == "" {
		return fmt.Errorf("audit wants a database DSN argument")
	}

	driver := c.String("driver")
	if driver == "" {
		driver = inferDriver(dsn)
	}
	if driver != "postgres" && driver != "sqlite" {
		return fmt.Errorf("unsupported driver %q, use postgres or sqlite", driver)
	}

	spec, err := schemafile.Load(c.String("config"))
	if err != nil {
		return err
	}

	m, err := schemafile.Build(spec)
	if err != nil {
		return err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var live []introspect.Entry
	if driver == "postgres" {
		live, err = introspect.Postgres{Schemas: c.StringSlice("schema")}.Read(c.Context, db)
	} else {
		live, err = introspect.SQLite{}.Read(c.Context, db)
	}
	if err != nil {
		return err
	}

	drifts, err := introspect.Audit(live, m)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		out, err := json.MarshalIndent(drifts, "", "\t")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(out))
	} else {
		for _, d := range drifts {
			fmt.Fprintf(c.App.Writer, "%s %s (%s): have %q, want %q\n",
				d.Table, kindLabel(d.Kind), strings.Join(d.Columns, ", "), d.Name, d.Want)
		}
	}

	if len(drifts) > 0 {
		return cli.Exit(fmt.Sprintf("%d name(s) drifted from the naming convention", len(drifts)), 1)
	}

	fmt.Fprintln(c.App.Writer, "all names match the naming convention")

	return nil
}

// inferDriver guesses the driver from the DSN shape: postgres URLs and
// key=value conninfo strings go to lib/pq, anything else is treated as a
// sqlite database path. file: URIs are sqlite even when their query
// string contains key=value pairs.
func inferDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite"
	case strings.Contains(dsn, "="):
		return "postgres"
	default:
		return "sqlite"
	}
}
