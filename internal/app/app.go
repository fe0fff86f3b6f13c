// Package app wires concrete adapters behind the ports from a Config.
// It is shared by the HTTP server and the command-line planner.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"routeflow-service/internal/adapters/cache"
	"routeflow-service/internal/adapters/extractor"
	"routeflow-service/internal/adapters/geocode"
	"routeflow-service/internal/adapters/repositories"
	"routeflow-service/internal/config"
	"routeflow-service/internal/platform/db"
	"routeflow-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config    config.Config
	DB        *sql.DB
	Redis     *redis.Client
	Extractor ports.TextExtractor
	Geocoder  ports.Geocoder
	Plans     ports.RoutePlanRepository
}

// New opens storage and builds the extraction and geocoding chain.
//
// Postgres backs plans and the geocode cache when DATABASE_URL is set,
// otherwise plans live in memory. Redis, when configured, takes over the
// geocode cache. Seeded addresses are answered before any cache or lookup.
func New(ctx context.Context, cfg config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.DatabaseURL != "" {
		a.DB, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		if err := repositories.InitSchema(ctx, a.DB); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.Plans = repositories.NewPostgresPlanRepository(a.DB)
	} else {
		log.Warn().Msg("DATABASE_URL not set, route plans are kept in memory")
		a.Plans = repositories.NewMemoryPlanRepository()
	}

	var geocodeCache ports.GeocodeCache
	switch {
	case cfg.RedisURL != "":
		a.Redis, err = cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		geocodeCache = cache.NewRedisGeocodeCache(a.Redis, cfg.GeocodeCacheTTL)
	case a.DB != nil:
		geocodeCache = cache.NewSQLGeocodeCache(a.DB, cfg.GeocodeCacheTTL)
	}

	nominatim, err := geocode.NewNominatimGeocoder(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocodeRegion)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.Geocoder = geocode.NewCachingGeocoder(nominatim, geocodeCache)

	if cfg.GeocodeSeedPath != "" {
		seeds, err := geocode.ReadSeeds(cfg.GeocodeSeedPath)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		static := geocode.NewStaticGeocoder(seeds)
		static.Fallback = a.Geocoder
		a.Geocoder = static
		log.Info().Int("seeds", len(seeds)).Str("path", cfg.GeocodeSeedPath).Msg("geocode seeds loaded")
	}

	a.Extractor, err = extractor.NewChatExtractor(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.DefaultCity)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}
