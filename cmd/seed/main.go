package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/foodiehub/foodiehub-backend/config"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/foodiehub/foodiehub-backend/internal/db"
)

func main() {
	assumeYes := flag.Bool("yes", false, "import without asking for confirmation")
	batchSize := flag.Int("batch", 500, "rows per insert batch")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [-yes] [-batch n] <catalog.xlsx>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	result, err := service.ParseCatalogXLSX(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	for _, reason := range result.Skipped {
		fmt.Printf("Skipped %s\n", reason)
	}
	fmt.Printf("Products to import: %d (skipped %d)\n", len(result.Products), len(result.Skipped))
	if len(result.Products) == 0 {
		return
	}

	if !*assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	affected, err := productRepo.Upsert(result.Products, *batchSize)
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Products inserted or updated: %d\n", affected)
}
