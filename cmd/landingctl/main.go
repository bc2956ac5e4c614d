package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Env []string `name:"env" type:"path" default:".env" help:"Dotenv files to load before reading LANDING_* variables."`

	Serve    serveCmd    `cmd:"" default:"1" help:"Run the landing page builder server."`
	Types    typesCmd    `cmd:"" help:"List the registered widget types."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget type entry to a YAML manifest."`
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("landingctl"),
		kong.Description("Landing page builder server and manifest tooling."),
		kong.UsageOnError(),
		kong.Bind(&root),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
