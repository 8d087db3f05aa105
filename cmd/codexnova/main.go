package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codexnova/internal"
	"codexnova/internal/config"
	"codexnova/internal/pipeline"
	"codexnova/internal/storage"
	"codexnova/internal/taxonomy"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "validate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "sheet path or URL")
		format := fs.String("format", "auto", "csv|xlsx|html|eml|auto")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		sheet, validator, _, err := loadAndBind(cfg, *input, *format)
		must(err)
		validation := validator.Validate(sheet)
		alignment := validator.CheckAlignment(sheet)
		printValidation(validation, alignment)
		if !validation.IsValid || len(alignment.Issues) > 0 {
			os.Exit(1)
		}
	case "sql":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "sheet path or URL")
		format := fs.String("format", "auto", "csv|xlsx|html|eml|auto")
		out := fs.String("out", "", "output sql path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		sheet, validator, extractor, err := loadAndBind(cfg, *input, *format)
		must(err)

		validation := validator.Validate(sheet)
		alignment := validator.CheckAlignment(sheet)
		printValidation(validation, alignment)
		if !validation.IsValid || len(alignment.Issues) > 0 {
			must(fmt.Errorf("refusing to generate import script: validation failed"))
		}

		result := extractor.Extract(sheet)
		outputPath := *out
		if outputPath == "" {
			outputPath = filepath.Join(cfg.OutputDir, "codex-nova-import.sql")
		}
		must(os.MkdirAll(filepath.Dir(outputPath), 0o755))
		must(os.WriteFile(outputPath, []byte(pipeline.GenerateSQL(result, time.Now())), 0o644))

		summaryPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "-summary.json"
		must(pipeline.WriteReportJSON(pipeline.BuildReport(result), summaryPath))
		fmt.Printf("sql script written: %s (brands=%d products=%d ratePlans=%d)\n",
			outputPath, len(result.Brands), len(result.Products), len(result.RatePlans))
		fmt.Printf("summary written: %s\n", summaryPath)
	case "report":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "sheet path or URL")
		format := fs.String("format", "auto", "csv|xlsx|html|eml|auto")
		jsonOut := fs.String("json", "", "report json path")
		xlsxOut := fs.String("xlsx", "", "rate plan workbook path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		sheet, _, extractor, err := loadAndBind(cfg, *input, *format)
		must(err)

		result := extractor.Extract(sheet)
		report := pipeline.BuildReport(result)

		jsonPath := *jsonOut
		if jsonPath == "" {
			jsonPath = filepath.Join(cfg.OutputDir, "import-report.json")
		}
		must(pipeline.WriteReportJSON(report, jsonPath))
		fmt.Printf("report written: %s (brands=%d products=%d ratePlans=%d errors=%d warnings=%d)\n",
			jsonPath, report.Summary.Brands, report.Summary.Products, report.Summary.RatePlans,
			report.Summary.Errors, report.Summary.Warnings)

		if strings.TrimSpace(*xlsxOut) != "" {
			must(pipeline.ExportRatePlansXLSX(result, *xlsxOut))
			fmt.Printf("rate plan workbook written: %s\n", *xlsxOut)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "sheet path or URL")
		format := fs.String("format", "auto", "csv|xlsx|html|eml|auto")
		out := fs.String("out", "", "workbook path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		sheet, _, extractor, err := loadAndBind(cfg, *input, *format)
		must(err)

		result := extractor.Extract(sheet)
		outputPath := *out
		if outputPath == "" {
			outputPath = filepath.Join(cfg.OutputDir, "rate-plans.xlsx")
		}
		must(pipeline.ExportRatePlansXLSX(result, outputPath))
		fmt.Printf("rate plan workbook written: %s (%d rate plans)\n", outputPath, len(result.RatePlans))
	case "import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "sheet path or URL")
		format := fs.String("format", "auto", "csv|xlsx|html|eml|auto")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		sheet, validator, extractor, err := loadAndBind(cfg, *input, *format)
		must(err)

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := pipeline.NewImportService(db, cfg, validator, extractor)
		result, err := svc.Run(sheet)
		printValidation(result.Validation, result.Alignment)
		for _, stmtErr := range result.StatementErrors {
			fmt.Printf("statement failed: %s\n", stmtErr)
		}
		must(err)
		if result.Status != internal.RunVerified {
			must(fmt.Errorf("import refused: run ended in state %s", result.Status))
		}
		fmt.Printf("import verified: brands=%d products=%d ratePlans=%d\n",
			result.Counts.Brands, result.Counts.Products, result.Counts.RatePlans)
	case "fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		url := fs.String("url", cfg.SheetURL, "sheet URL")
		out := fs.String("out", "", "output path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("SHEET_URL", *url))
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		blob, err := pipeline.FetchSheet(*url, time.Duration(cfg.FetchTimeoutMs)*time.Millisecond)
		must(err)
		must(os.MkdirAll(filepath.Dir(*out), 0o755))
		must(os.WriteFile(*out, blob, 0o644))
		fmt.Printf("fetched %d bytes to %s\n", len(blob), *out)
	case "db:stats":
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		brands, products, ratePlans, err := db.Counts()
		must(err)
		fmt.Printf("brands=%d products=%d ratePlans=%d\n", brands, products, ratePlans)

		byBrand, err := db.RatePlanCountsByBrand()
		must(err)
		codes := make([]string, 0, len(byBrand))
		for code := range byBrand {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Printf("  %s: %d rate plans\n", code, byBrand[code])
		}
	default:
		usage()
		os.Exit(1)
	}
}

// loadAndBind reads the sheet, resolves the column profile and the rate
// plan mapping / correction tables, and returns the bound pipeline stages.
func loadAndBind(cfg config.Config, input, format string) (internal.ParsedSheet, *pipeline.Validator, *pipeline.Extractor, error) {
	delimiter := ','
	if cfg.Delimiter != "" {
		delimiter = []rune(cfg.Delimiter)[0]
	}

	sheet, err := pipeline.LoadSheet(input, format, delimiter, time.Duration(cfg.FetchTimeoutMs)*time.Millisecond)
	if err != nil {
		return internal.ParsedSheet{}, nil, nil, err
	}

	var profile taxonomy.ColumnProfile
	if cfg.ColumnProfile == "" || cfg.ColumnProfile == "auto" {
		profile, err = taxonomy.DetectProfile(sheet.Headers)
	} else {
		profile, err = taxonomy.ProfileByName(cfg.ColumnProfile)
	}
	if err != nil {
		return internal.ParsedSheet{}, nil, nil, err
	}

	mapping := taxonomy.DefaultMapping()
	if cfg.MappingPath != "" {
		mapping, err = taxonomy.LoadMapping(cfg.MappingPath)
		if err != nil {
			return internal.ParsedSheet{}, nil, nil, err
		}
	}

	corrections := taxonomy.DefaultCorrections()
	if cfg.CorrectionsPath != "" {
		corrections, err = taxonomy.LoadCorrections(cfg.CorrectionsPath)
		if err != nil {
			return internal.ParsedSheet{}, nil, nil, err
		}
	}

	validator := pipeline.NewValidator(profile, mapping)
	extractor := pipeline.NewExtractor(profile, mapping, corrections)
	return sheet, validator, extractor, nil
}

func printValidation(validation internal.ValidationResult, alignment internal.AlignmentResult) {
	fmt.Printf("rows=%d brands=%d products=%d ratePlans=%d alignments=%d\n",
		validation.Stats.TotalRows, validation.Stats.UniqueBrands, validation.Stats.UniqueProducts,
		validation.Stats.TotalRatePlans, alignment.TotalAlignments)

	codes := make([]string, 0, len(validation.Stats.RatePlansByBrand))
	for code := range validation.Stats.RatePlansByBrand {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("  %s: %d rate plans\n", code, validation.Stats.RatePlansByBrand[code])
	}

	for _, e := range validation.Errors {
		fmt.Printf("error: %s\n", e)
	}
	for _, w := range validation.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, issue := range alignment.Issues {
		fmt.Printf("alignment: %s\n", issue)
	}

	if validation.IsValid && len(alignment.Issues) == 0 {
		fmt.Println("validation passed")
	} else {
		fmt.Println("validation failed")
	}
}

func usage() {
	fmt.Println("usage: codexnova <command>")
	fmt.Println("commands:")
	fmt.Println("  validate --input=sheet.csv [--format=csv|xlsx|html|eml]")
	fmt.Println("  sql --input=sheet.csv [--out=./out/codex-nova-import.sql]")
	fmt.Println("  report --input=sheet.csv [--json=report.json] [--xlsx=plans.xlsx]")
	fmt.Println("  export:xlsx --input=sheet.csv [--out=./out/rate-plans.xlsx]")
	fmt.Println("  import --input=sheet.csv")
	fmt.Println("  fetch --url=https://... --out=sheet.csv")
	fmt.Println("  db:stats")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
