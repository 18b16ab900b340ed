package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	var (
		txRunner     ledger.TxRunner
		movRepo      repository.MovementRepository
		receiptRepo  repository.ReceiptRepository
		saleRepo     repository.SaleRepository
		productRepo  repository.ProductRepository
		categoryRepo repository.CategoryRepository
		reportRepo   repository.ReportRepository
	)

	if cfg.DB.Configured() {
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		txRunner = postgres.NewTxRunner(pool)
		movRepo = postgres.NewMovementRepository(pool)
		receiptRepo = postgres.NewReceiptRepository(pool)
		saleRepo = postgres.NewSaleRepository(pool)
		productRepo = postgres.NewProductRepository(pool)
		categoryRepo = postgres.NewCategoryRepository(pool)
		reportRepo = postgres.NewReportRepository(pool)
	} else {
		// Sin DB configurada: almacén en memoria para desarrollo local.
		log.Warn().Msg("sin DATABASE_URL ni DB_HOST: usando almacén en memoria (los datos no persisten)")
		store := memory.NewStore()
		txRunner = store
		movRepo = store.Movements()
		receiptRepo = store.Receipts()
		saleRepo = store.Sales()
		productRepo = store.Products()
		categoryRepo = store.Categories()
		reportRepo = store.Reports()
	}

	receiptUC := ledger.NewReceiptUseCase(txRunner, receiptRepo)
	saleUC := ledger.NewSaleUseCase(txRunner, saleRepo)
	movementUC := ledger.NewMovementUseCase(txRunner, movRepo)
	stockUC := report.NewStockUseCase(reportRepo)
	profitabilityUC := report.NewProfitabilityUseCase(reportRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, movRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ReceiptUC:       receiptUC,
		SaleUC:          saleUC,
		MovementUC:      movementUC,
		StockUC:         stockUC,
		ProfitabilityUC: profitabilityUC,
		ProductUC:       productUC,
		CategoryUC:      categoryUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
