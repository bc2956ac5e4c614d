package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/components/landing/widgets"
	"github.com/goliatone/go-landing/internal/app"
	"github.com/goliatone/go-landing/internal/config"
)

type typesCmd struct {
	Manifest string `type:"path" help:"Manifest to load on top of the built-in types (defaults to LANDING_MANIFEST)."`
	Category string `help:"Only list types in this category."`
}

func (cmd *typesCmd) Run(_ context.Context, root *cli) error {
	manifest := cmd.Manifest
	if manifest == "" {
		cfg, err := config.Load(root.Env...)
		if err != nil {
			return err
		}
		manifest = cfg.Manifest
	}
	reg, err := app.BuildRegistry(manifest, widgets.Dependencies{})
	if err != nil {
		return err
	}
	return printTypes(os.Stdout, reg.Types(), cmd.Category)
}

func printTypes(out io.Writer, types []landing.WidgetType, category string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tLABEL")
	for _, wt := range types {
		if category != "" && wt.Category != category {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", wt.Name, wt.Category, wt.Label)
	}
	return w.Flush()
}
