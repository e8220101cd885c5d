package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/config"
	"github.com/foxxcyber/healthy-food/internal/database"
	"github.com/foxxcyber/healthy-food/internal/geo"
	"github.com/foxxcyber/healthy-food/internal/logger"
	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/services"
)

func main() {
	// Command line flags
	file := flag.String("file", "", "YAML catalog to import (default: bundled seed)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	geocode := flag.Bool("geocode", false, "Look up missing supplier coordinates with Google Maps")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.Init(logger.LogConfig{Level: cfg.LogLevel, Environment: cfg.Environment, ServiceName: "healthy-food-seeder"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	path := *file
	if path == "" {
		path = cfg.CatalogFile
	}
	seed, err := catalog.LoadSeedFile(path)
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}
	log.Info("Catalog parsed", zap.Int("suppliers", len(seed.Suppliers)), zap.Int("products", len(seed.Products)))

	ctx := context.Background()

	if *geocode {
		maps := services.NewGoogleMapsService(cfg.GoogleMapsAPIKey)
		if !maps.Enabled() {
			log.Fatal("GOOGLE_API_KEY_MAPS is required for -geocode")
		}
		fillCoordinates(ctx, maps, seed.Suppliers, log)
	}

	if *dryRun {
		printSummary(seed)
		log.Info("Dry run, nothing written")
		return
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := db.UpsertSuppliers(ctx, seed.Suppliers); err != nil {
		log.Fatal("Failed to import suppliers", zap.Error(err))
	}
	if err := db.UpsertProducts(ctx, seed.Products); err != nil {
		log.Fatal("Failed to import products", zap.Error(err))
	}
	log.Info("Catalog imported", zap.Int("suppliers", len(seed.Suppliers)), zap.Int("products", len(seed.Products)))
}

type addressGeocoder interface {
	Geocode(ctx context.Context, address string) (*services.GeocodingResult, error)
}

// fillCoordinates geocodes suppliers that have no coordinates. Failures are
// logged and the supplier is left without a pin.
func fillCoordinates(ctx context.Context, g addressGeocoder, suppliers []models.Supplier, log *zap.Logger) {
	for i := range suppliers {
		s := &suppliers[i]
		if s.Latitude != 0 || s.Longitude != 0 {
			continue
		}
		res, err := g.Geocode(ctx, s.Address+", "+geo.City)
		if err != nil {
			log.Warn("Geocoding failed", zap.String("supplier", s.Name), zap.Error(err))
			continue
		}
		s.Latitude, s.Longitude = res.Latitude, res.Longitude
		log.Info("Geocoded supplier", zap.String("supplier", s.Name), zap.Float64("lat", s.Latitude), zap.Float64("lng", s.Longitude))
	}
}

func printSummary(seed *catalog.Seed) {
	fmt.Println("Suppliers:")
	for _, s := range seed.Suppliers {
		fmt.Printf("  %3d  %-20s %-13s %.4f,%.4f\n", s.ID, s.Name, s.Type, s.Latitude, s.Longitude)
	}
	fmt.Println("Products:")
	for _, p := range seed.Products {
		fmt.Printf("  %3d  %-35s R$ %6.2f  %s\n", p.ID, p.Name, p.Price, p.Supplier)
	}
}
