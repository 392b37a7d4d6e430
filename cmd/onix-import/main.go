package main

import (
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/config"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/onix"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/pipeline"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "path to ONIX XML file")
		tenant := fs.String("tenant", cfg.Tenant, "tenant identifier")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		raw, err := os.ReadFile(*file)
		must(err)
		meta := internal.FileMeta{
			Name: filepath.Base(*file),
			Size: int64(len(raw)),
			Type: mime.TypeByExtension(filepath.Ext(*file)),
		}

		svc := pipeline.NewImportService(db, cfg)
		result, importID, err := svc.Import(meta, raw, internal.TenantContext{TenantID: *tenant})
		must(err)
		printResult(result, importID)
	case "detect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "path to ONIX XML file")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}

		raw, err := os.ReadFile(*file)
		must(err)
		text := onix.DecodeToUTF8(raw)
		fmt.Printf("version=%s products=%d shortTags=%v\n",
			onix.DetectVersion(text), onix.EstimateProductCount(text), onix.HasShortTags(text))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		importID := fs.Int64("importId", 0, "stored import id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *importID == 0 {
			must(fmt.Errorf("--importId is required"))
		}
		if strings.TrimSpace(*out) == "" {
			*out = filepath.Join(cfg.OutputDir, fmt.Sprintf("import-%d.xlsx", *importID))
		}

		rows, err := db.GetReportRows(*importID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no report rows for importId=%d", *importID))
		}
		must(pipeline.ExportRowsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max imports to list")
		_ = fs.Parse(os.Args[2:])

		imports, err := db.ListImports(*limit)
		must(err)
		for _, s := range imports {
			fmt.Printf("#%d %s tenant=%s version=%s status=%s products=%d errors=%d at=%s\n",
				s.ID, s.Filename, s.Tenant, s.Version, s.Status, s.ProductCount, s.ErrorCount, s.CreatedAt)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func printResult(result internal.ImportResult, importID int64) {
	fmt.Printf("import #%d status=%s version=%s products=%d\n", importID, result.Status, result.Version, len(result.Products))
	if result.Header.SenderName != "" {
		fmt.Printf("sender: %s <%s>\n", result.Header.SenderName, result.Header.SenderEmail)
	}
	for _, e := range result.ValidationErrors {
		fmt.Printf("file error [%s]: %s\n", e.Field, e.Message)
	}
	for _, e := range result.ParsingErrors {
		fmt.Printf("parsing error: %s\n", e)
	}
	for _, p := range result.Products {
		marker := " "
		if p.Conflict {
			marker = "!"
		}
		fmt.Printf("%s [%d] %s isbn=%s status=%s\n", marker, p.RawIndex, p.Title, strOr(p.ISBN, "-"), p.PublicationStatus)
		for _, e := range p.ValidationErrors {
			fmt.Printf("    error [%s]: %s\n", e.Field, e.Message)
		}
	}
}

func strOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func usage() {
	fmt.Println("usage: onix-import <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  import      --file <path> [--tenant <id>]")
	fmt.Println("  detect      --file <path>")
	fmt.Println("  export:xlsx --importId <id> [--out <path>]")
	fmt.Println("  history     [--limit <n>]")
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
