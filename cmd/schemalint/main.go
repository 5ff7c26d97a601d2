package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jvanasco/sqlschema/schemafile"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	app := &cli.App{
		Name:      "schemalint",
		Usage:     "Preview and audit the names a naming convention produces for your schema",
		UsageText: "schemalint [-c FILE] command [options]",
		Version:   version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   schemafile.DefaultPath,
				Usage:   "Load the schema definition from `FILE`",
			},
		},
		Commands: []*cli.Command{
			namesCommand(),
			auditCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}

	return ""
}
