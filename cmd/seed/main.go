// seed aplica el schema y carga los datos iniciales de la lanchonete:
// usuario admin/admin123 y el cardápio por defecto (o un CSV propio).
//
// Uso:
//
//	go run ./cmd/seed
//	go run ./cmd/seed -products cardapio.csv -charset latin1 -sep ';'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fichas-api/internal/application/auth"
	"github.com/jhoicas/fichas-api/internal/application/catalog"
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fichas-api/pkg/config"
	"github.com/jhoicas/fichas-api/pkg/logger"
)

const (
	adminUsername = "admin"
	adminPassword = "admin123"
)

var defaultProducts = []dto.CreateProductRequest{
	{Name: "Café Expresso", Category: "Bebidas", Price: decimal.RequireFromString("3.50"), Stock: 100, Description: "Café expresso tradicional"},
	{Name: "Cappuccino", Category: "Bebidas", Price: decimal.RequireFromString("5.00"), Stock: 80, Description: "Cappuccino cremoso"},
	{Name: "Sanduíche Natural", Category: "Lanches", Price: decimal.RequireFromString("12.00"), Stock: 50, Description: "Sanduíche com frango e vegetais"},
	{Name: "Misto Quente", Category: "Lanches", Price: decimal.RequireFromString("8.00"), Stock: 60, Description: "Pão de forma com queijo e presunto"},
	{Name: "Suco de Laranja", Category: "Bebidas", Price: decimal.RequireFromString("6.00"), Stock: 120, Description: "Suco natural de laranja"},
	{Name: "Água Mineral", Category: "Bebidas", Price: decimal.RequireFromString("3.00"), Stock: 200, Description: "Água mineral sem gás 500ml"},
}

func main() {
	productsFile := flag.String("products", "", "CSV con el cardápio (nome,categoria,preco,estoque,descricao)")
	charset := flag.String("charset", "utf-8", "charset del CSV: utf-8, latin1, windows-1252")
	sep := flag.String("sep", ",", "separador de campos del CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	products := defaultProducts
	if *productsFile != "" {
		if len([]rune(*sep)) != 1 {
			log.Fatal().Str("sep", *sep).Msg("el separador debe ser un único carácter")
		}
		f, err := os.Open(*productsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		products, err = readCatalog(f, *charset, []rune(*sep)[0])
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", *productsFile).Msg("leer CSV")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar schema")
	}
	log.Info().Msg("schema aplicado")

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	existing, err := userRepo.GetByUsername(ctx, adminUsername)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar admin")
	}
	if existing == nil {
		authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{})
		if _, err := authUC.RegisterStaff(ctx, dto.RegisterRequest{
			Username: adminUsername,
			Password: adminPassword,
			Name:     "Administrador",
			Role:     entity.RoleAdmin,
		}); err != nil {
			log.Fatal().Err(err).Msg("crear admin")
		}
		log.Info().Str("username", adminUsername).Msg("usuario admin creado")
	} else {
		log.Info().Str("username", adminUsername).Msg("usuario admin ya existe")
	}

	count, err := productRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("contar productos")
	}
	if count > 0 {
		log.Info().Int("productos", count).Msg("cardápio ya cargado, no se insertan productos")
		return
	}

	productUC := catalog.NewProductUseCase(postgres.NewTxRunner(pool), productRepo, cfg.Tickets.LowStockThreshold)
	for _, p := range products {
		if _, err := productUC.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("produto", p.Name).Msg("insertar producto")
		}
	}
	log.Info().Int("productos", len(products)).Msg("cardápio cargado")
}
