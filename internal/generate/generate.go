// Package generate writes one Avahi service file per shared CUPS queue.
package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"airprintgolang/internal/airprint"
	"airprintgolang/internal/model"
	"airprintgolang/internal/servicedir"
)

// PrinterSource lists the queues of a printing service.
type PrinterSource interface {
	ListPrinters(ctx context.Context) ([]model.PrinterAttributes, error)
}

type Generator struct {
	Source  PrinterSource
	Builder airprint.Builder
	Dir     servicedir.Dir
	Verbose bool
	Logger  *slog.Logger
}

// Run fetches the printers and writes a descriptor for each shared one,
// overwriting older files. The first failure stops the run; files written
// before it are left in place. It returns the paths written.
func (g *Generator) Run(ctx context.Context) ([]string, error) {
	printers, err := g.Source.ListPrinters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list printers: %w", err)
	}
	if err := g.Dir.Ensure(); err != nil {
		return nil, fmt.Errorf("create %s: %w", g.Dir.Path, err)
	}

	var written []string
	for _, p := range printers {
		if !p.Shared {
			g.logger().Debug("skipping unshared printer", "printer", p.Name)
			continue
		}
		doc := g.Builder.Build(p.Name, p, airprint.NewTemplate())
		path, err := g.Dir.Write(p.Name, func(w io.Writer) error {
			return airprint.Render(w, doc)
		})
		if err != nil {
			return written, fmt.Errorf("write service file for %s: %w", p.Name, err)
		}
		written = append(written, path)
		if g.Verbose {
			g.logger().Info("Created: " + path)
		}
	}
	return written, nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
