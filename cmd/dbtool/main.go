package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"routeflow-service/internal/adapters/cache"
	"routeflow-service/internal/adapters/geocode"
	"routeflow-service/internal/adapters/repositories"
	"routeflow-service/internal/config"
	"routeflow-service/internal/platform/db"
	"routeflow-service/internal/platform/obs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	seedPath := flag.String("seed", "", "optional geocode seed JSON to load into geocode_cache")
	purge := flag.Bool("purge", false, "delete geocode_cache rows older than GEOCODE_CACHE_TTL")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	obs.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	path := *seedPath
	if path == "" {
		path = cfg.GeocodeSeedPath
	}
	geocodeCache := cache.NewSQLGeocodeCache(conn, cfg.GeocodeCacheTTL)
	if err := initAndSeed(ctx, conn, geocodeCache, path, *purge); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, geocodeCache *cache.SQLGeocodeCache, seedPath string, purge bool) error {
	log.Info().Msg("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("Schema ready.")

	if purge {
		n, err := geocodeCache.Purge(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("removed", n).Dur("ttl", geocodeCache.TTL).Msg("Stale geocode entries purged.")
	}

	if seedPath == "" {
		return nil
	}

	log.Info().Str("path", seedPath).Msg("Seeding geocode cache...")
	seeds, err := geocode.ReadSeeds(seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if err := geocodeCache.PutMany(ctx, seeds); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Int("addresses", len(seeds)).Msg("Seeding complete.")

	return nil
}
