// Package app wires the stores and engines over one embedded database handle.
package app

import (
	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/category"
	"github.com/Iceblockp/mini-shop-pos/internal/inventory"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/metrics"
	"github.com/Iceblockp/mini-shop-pos/internal/model"
	"github.com/Iceblockp/mini-shop-pos/internal/product"
	"github.com/Iceblockp/mini-shop-pos/internal/report"
	"github.com/Iceblockp/mini-shop-pos/internal/sales"
	"github.com/jmoiron/sqlx"

	catRepoPkg "github.com/Iceblockp/mini-shop-pos/internal/category/repository"
	catUCPkg "github.com/Iceblockp/mini-shop-pos/internal/category/usecase"
	invRepoPkg "github.com/Iceblockp/mini-shop-pos/internal/inventory/repository"
	invUCPkg "github.com/Iceblockp/mini-shop-pos/internal/inventory/usecase"
	prodRepoPkg "github.com/Iceblockp/mini-shop-pos/internal/product/repository"
	prodUCPkg "github.com/Iceblockp/mini-shop-pos/internal/product/usecase"
	reportUCPkg "github.com/Iceblockp/mini-shop-pos/internal/report/usecase"
	salesRepoPkg "github.com/Iceblockp/mini-shop-pos/internal/sales/repository"
	salesUCPkg "github.com/Iceblockp/mini-shop-pos/internal/sales/usecase"
)

type App struct {
	Categories category.UseCase
	Products   product.UseCase
	Inventory  inventory.UseCase
	Sales      sales.UseCase
	Reports    report.UseCase
}

// New builds every use case over db. The caller keeps ownership of db and of alerts;
// alerts and m may be nil.
func New(db *sqlx.DB, cfg *config.Config, alerts chan<- model.InventoryAlert, m *metrics.Metrics, log logger.ZapLogger) *App {
	catRepo := catRepoPkg.NewSQLiteRepository(db)
	prodRepo := prodRepoPkg.NewSQLiteRepository(db)
	invRepo := invRepoPkg.NewSQLiteRepository(db)
	salesRepo := salesRepoPkg.NewSQLiteRepository(db)

	products := prodUCPkg.NewProductUseCase(prodRepo, catRepo, log)

	return &App{
		Categories: catUCPkg.NewCategoryUseCase(catRepo, prodRepo, log),
		Products:   products,
		Inventory:  invUCPkg.NewInventoryUseCase(invRepo, cfg.Inventory, alerts, m, log),
		Sales:      salesUCPkg.NewSalesUseCase(salesRepo, m, log),
		Reports:    reportUCPkg.NewReportUseCase(products, salesRepo, cfg.Report, log),
	}
}
