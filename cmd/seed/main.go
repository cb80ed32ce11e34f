package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ikkim/phonedesk-backend/config"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/db"
	"github.com/ikkim/phonedesk-backend/internal/ingest"
	"github.com/ikkim/phonedesk-backend/internal/storage"
	"github.com/ikkim/phonedesk-backend/pkg/redis"
)

func main() {
	shopID := flag.String("shop", "", "판매일보를 넣을 매장 ID")
	yes := flag.Bool("y", false, "확인 없이 바로 가져오기")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/seed/main.go [-shop <shop_id> [-y] <ledger.xlsx|csv>]")
		flag.PrintDefaults()
	}
	flag.Parse()

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate:", err)
	}

	// super_admin 부트스트랩
	if err := db.SeedSuperAdmin(db.GetDB(), &cfg.Bootstrap); err != nil {
		log.Fatal("Failed to seed super_admin:", err)
	}

	if *shopID == "" {
		fmt.Println("No -shop given, ledger import skipped.")
		return
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	// 파일 읽기 + 미리보기
	fmt.Printf("Reading ledger file: %s\n", filePath)
	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal("Failed to read file:", err)
	}
	sheet, err := ingest.ReadFile(filePath, data)
	if err != nil {
		log.Fatal("Failed to parse file:", err)
	}
	preview := ingest.MapRows(sheet.Header, sheet.Rows, *shopID)
	fmt.Printf("Rows: %d, %s, unmapped headers: %v\n", len(sheet.Rows), preview.Summary(), preview.Unmapped)

	// 사용자 확인
	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	database := db.GetDB()
	shopRepo := repository.NewShopRepository(database)
	reportService := service.NewReportService(
		repository.NewReportRepository(database),
		repository.NewSettingsRepository(database),
		authz.NewAuthorizer(shopRepo),
		redis.NewNoopLocker(),
		storage.NewDisabledArchive(),
		nil,
	)

	ctx := context.Background()
	if _, err := shopRepo.FindByID(ctx, *shopID); err != nil {
		log.Fatal("Shop not found:", err)
	}

	operator := &authz.AuthContext{ID: "seed-cli", Role: model.RoleSuperAdmin, Name: "seed"}
	result, err := reportService.ImportFile(ctx, operator, *shopID, filepath.Base(filePath), data)
	if err != nil && !errors.Is(err, service.ErrNoMappedRows) {
		log.Fatal("Import failed:", err)
	}

	fmt.Printf("\nImport completed: inserted %d, skipped %d\n", result.Inserted, result.Skipped)
	for i, msg := range result.Errors {
		if i == 10 {
			fmt.Printf("... and %d more\n", len(result.Errors)-10)
			break
		}
		fmt.Println("  -", msg)
	}
}
