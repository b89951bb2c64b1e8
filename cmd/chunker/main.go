// Command chunker splits every large PDF and DOCX of the input folder into
// page- or paragraph-bounded text parts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docbrief/internal/batch"
	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/document"
	"github.com/dgallion1/docbrief/internal/logger"
	"github.com/dgallion1/docbrief/internal/parser"
	"github.com/dgallion1/docbrief/internal/progress"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		return 1
	}

	fs := pflag.NewFlagSet("chunker", pflag.ContinueOnError)
	fs.StringVarP(&cfg.ChunkInputDir, "input", "i", cfg.ChunkInputDir, "folder holding the documents to split")
	fs.StringVarP(&cfg.ChunkOutputDir, "output", "o", cfg.ChunkOutputDir, "folder receiving the text parts")
	fs.IntVar(&cfg.PagesPerChunk, "pages", cfg.PagesPerChunk, "pages per part for PDF files")
	fs.IntVar(&cfg.ParagraphsPerChunk, "paragraphs", cfg.ParagraphsPerChunk, "paragraphs per part for DOCX files")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if cfg.PagesPerChunk <= 0 || cfg.ParagraphsPerChunk <= 0 {
		fmt.Fprintln(os.Stderr, "--pages and --paragraphs must be positive")
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(
		cfg.ChunkInputDir,
		cfg.ChunkOutputDir,
		cfg.PagesPerChunk,
		cfg.ParagraphsPerChunk,
		parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		progress.NewLogObserver(log),
	)

	report, err := runner.Run(ctx)
	if report != nil {
		printReport(stdout, report, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "chunking stopped: %v\n", err)
		return 1
	}
	return 0
}

func printReport(w io.Writer, r *batch.Report, cfg config.Config) {
	if r.NoInput {
		fmt.Fprintln(w, "No documents to split.")
		fmt.Fprintf(w, "Place large PDF or DOCX files in %s and run again.\n", cfg.ChunkInputDir)
		return
	}

	fmt.Fprintf(w, "Found %d PDF and %d DOCX files.\n\n", r.PDFs, r.Words)
	for _, d := range r.Documents {
		switch {
		case d.Error != "":
			fmt.Fprintf(w, "  FAILED  %s: %s\n", d.Name, d.Error)
		case d.Skipped:
			fmt.Fprintf(w, "  skipped %s: no text extracted\n", d.Name)
		case d.Split:
			fmt.Fprintf(w, "  split   %s: %d %ss into %d parts\n", d.Name, d.Units, document.Kind(d.Kind).UnitLabel(), d.Parts)
		default:
			fmt.Fprintf(w, "  copied  %s: small document, not split\n", d.Name)
		}
	}
	fmt.Fprintf(w, "\nDone: %d files in %s", r.OutputFiles, cfg.ChunkOutputDir)
	if r.Failed > 0 {
		fmt.Fprintf(w, " (%d documents failed)", r.Failed)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Move the files from %s into %s to use them as prompt context.\n", cfg.ChunkOutputDir, cfg.DocumentsDir)
}
