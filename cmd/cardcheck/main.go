// Command cardcheck builds the card catalog from a content directory and
// reports every document that would be left out.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/p-n-ai/swipe-quiz/internal/cards"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cardcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", "./content/cards", "Directory containing card documents")
	xlsx := fs.String("xlsx", "", "Write an XLSX report of items and diagnostics to this path")
	strict := fs.Bool("strict", false, "Exit with status 1 when any document is rejected")
	workers := fs.Int("workers", 8, "Number of documents processed concurrently")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cat, err := cards.NewDirBuilder(*dir, cards.WithWorkers(*workers)).Build(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "%d cards, %d rejected\n", len(cat.Items), len(cat.Diagnostics))
	for _, d := range cat.Diagnostics {
		fmt.Fprintf(stdout, "  %s [%s] %s\n", d.File, d.Kind, d.Error)
	}

	if *xlsx != "" {
		if err := writeReport(*xlsx, cat); err != nil {
			fmt.Fprintf(stderr, "Error writing report: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "report written to %s\n", *xlsx)
	}

	if *strict && len(cat.Diagnostics) > 0 {
		return 1
	}
	return 0
}

func writeReport(path string, cat cards.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cards.WriteReport(f, cat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
