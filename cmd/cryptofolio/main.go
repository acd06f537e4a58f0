// Command cryptofolio runs one evaluation pass over a position sheet and
// prints the activation report, optionally writing the PDF rendering.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bobmcallan/cryptofolio/internal/app"
	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/services/report"
	"github.com/bobmcallan/cryptofolio/internal/services/sheet"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	positionsPath := flag.String("positions", "", "path to a CSV position sheet to upload before evaluating")
	pdfPath := flag.String("pdf", "", "write the PDF report to this path")
	quiet := flag.Bool("quiet", false, "suppress the table output")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(common.GetFullVersion())
		return
	}

	_ = godotenv.Load()

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *positionsPath != "" {
		if err := uploadSheet(ctx, a, *positionsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load position sheet: %v\n", err)
			os.Exit(1)
		}
	}

	summary, err := a.PortfolioService.EvaluateStored(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Print(report.FormatTable(summary))
		for _, event := range summary.NewlyActivated {
			fmt.Printf("Newly activated: %s (%.2f%%)\n", event.Token, event.ActivatedPercent)
		}
		if summary.CatalogDegraded {
			fmt.Println("Warning: coin catalog unavailable, static activation rules only")
		}
		if summary.QuotesUnavailable {
			fmt.Println("Warning: price quotes unavailable for this run")
		}
		if summary.NotifyWarning != "" {
			fmt.Println("Warning: " + summary.NotifyWarning)
		}
	}

	if *pdfPath != "" {
		data, err := a.ReportService.BuildPDF(summary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build PDF: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*pdfPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write PDF: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Printf("PDF report written to %s\n", *pdfPath)
		}
	}
}

// uploadSheet parses the CSV sheet and persists it as the stored sheet.
func uploadSheet(ctx context.Context, a *app.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := sheet.Parse(f)
	if err != nil {
		return err
	}
	return a.Storage.SheetStorage().SaveSheet(ctx, parsed)
}
