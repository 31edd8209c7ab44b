package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/digimart-backend/config"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/app/service"
	"github.com/ikkim/digimart-backend/internal/db"
	"github.com/ikkim/digimart-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// 컬럼 순서: title, description, price, sale_price, tags
const (
	colTitle = iota
	colDescription
	colPrice
	colSalePrice
	colTags
)

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <seller_email>")
	}

	filePath := os.Args[1]
	sellerEmail := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.GetDB())
	sellerService := service.NewSellerService(repository.NewSellerAccountRepository(db.GetDB()))
	productService := service.NewProductService(repository.NewProductRepository(db.GetDB()), sellerService)

	user, err := userRepo.FindByEmail(sellerEmail)
	if err != nil {
		log.Fatalf("Seller user %s not found: %v", sellerEmail, err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	inputs, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(inputs), skipped)

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 판매자 계정이 없으면 개설
	if _, _, err := sellerService.OpenAccount(user.ID); err != nil {
		log.Fatal("Failed to open seller account:", err)
	}

	imported := 0
	for i, input := range inputs {
		if _, err := productService.CreateProduct(user.ID, input); err != nil {
			fmt.Printf("Row %d (%s) failed: %v\n", i+2, input.Title, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Total products imported: %d/%d\n", imported, len(inputs))
}

func readProductsFromXLSX(filePath string) ([]service.ProductInput, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트만 사용
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	inputs, skipped := parseProductRows(rows[1:])
	return inputs, skipped, nil
}

// parseProductRows converts data rows (header excluded) into product input.
// Rows without a title or a positive price are skipped.
func parseProductRows(rows [][]string) ([]service.ProductInput, int) {
	var inputs []service.ProductInput
	skipped := 0

	for _, row := range rows {
		title := cell(row, colTitle)
		price, err := strconv.ParseFloat(cell(row, colPrice), 64)
		if title == "" || err != nil || price <= 0 || !util.TagTitlesFit(cell(row, colTags)) {
			skipped++
			continue
		}

		input := service.ProductInput{
			Title:       title,
			Description: cell(row, colDescription),
			Price:       price,
			Tags:        cell(row, colTags),
		}
		if raw := cell(row, colSalePrice); raw != "" {
			sale, err := strconv.ParseFloat(raw, 64)
			if err != nil || sale < 0 {
				skipped++
				continue
			}
			input.SalePrice = &sale
		}
		inputs = append(inputs, input)
	}
	return inputs, skipped
}

// excelize drops trailing empty cells, so short rows are normal.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
