// renderreport renders a saved career report JSON file to a paginated
// PDF without going through the HTTP server. Useful for iterating on
// templates/ and the pagination layout against a fixed report.
//
//	go run ./cmd/tools/renderreport -in report.json -out ./export-data
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/export"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/model"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/render"
	infra "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/pkg/infrastructure"
)

func main() {
	var (
		in      = flag.String("in", "", "path to a report JSON file (required)")
		outDir  = flag.String("out", "./export-data", "directory for the generated PDF")
		tplDir  = flag.String("templates", "./templates", "report template directory")
		htmlOut = flag.String("html", "", "also write the rendered HTML page here")
	)
	flag.Parse()
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read report: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Fatalf("parse report: %v", err)
	}
	doc = model.NormalizeReport(doc)
	if err := model.ValidateMap(doc); err != nil {
		log.Fatalf("report failed validation: %v", err)
	}
	report, err := model.ReportFromMap(doc)
	if err != nil {
		log.Fatalf("load report: %v", err)
	}

	renderer := render.NewRenderer(*tplDir, export.OversampleScale)
	page, err := renderer.RenderPage(report)
	if err != nil {
		log.Fatalf("render page: %v", err)
	}
	if *htmlOut != "" {
		if err := os.WriteFile(*htmlOut, []byte(page.HTML), 0o644); err != nil {
			log.Fatalf("write html: %v", err)
		}
		fmt.Printf("wrote %s\n", *htmlOut)
	}

	exporter := export.NewExporter(*outDir,
		export.NewChromeFactory(infra.AllocatorOptions("")),
		export.LogNotifier{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := exporter.Export(ctx, export.Request{
		JobID:       uuid.New(),
		AnalysisID:  uuid.New(),
		UserName:    report.UserName,
		PageHTML:    page.HTML,
		Charts:      page.Charts,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}

	fmt.Printf("wrote %s\n", res.Path)
	fmt.Printf("  pages: %d, sections: %d\n", res.Manifest.PageCount, len(res.Manifest.Sections))
	for _, sec := range res.Manifest.Sections {
		status := "ok"
		if sec.Failed {
			status = "FAILED"
		}
		fmt.Printf("  %d. %-28s pages %v  %s\n", sec.Ordinal, sec.Title, sec.Pages, status)
	}
}
