package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLGeocodeCache keeps geocoding results in the geocode_cache table.
// Rows older than TTL are treated as misses and can be removed with Purge.
// A zero TTL keeps entries forever.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl}
}

// uniqueKeys trims, drops blanks and deduplicates while keeping order.
func uniqueKeys(keys []string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}

func (s *SQLGeocodeCache) ttlSeconds() float64 {
	if s.TTL <= 0 {
		return 0
	}
	return s.TTL.Seconds()
}

// GetMany returns the fresh entries among addresses.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT address, lat, lon
	FROM geocode_cache
	WHERE address = ANY($1::text[])
	  AND ($2::double precision <= 0
	       OR updated_at > now() - make_interval(secs => $2::double precision));
	`, uniq, s.ttlSeconds())
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var addr string
		var c domain.Coordinates
		if err := rows.Scan(&addr, &c.Lat, &c.Lon); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan: %w", err)
		}
		out[addr] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: %w", err)
	}

	return out, nil
}

// PutMany upserts all results in one statement and refreshes their age.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	addrs := make([]string, 0, len(results))
	lats := make([]float64, 0, len(results))
	lons := make([]float64, 0, len(results))
	for addr, c := range results {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return errors.New("put geocode cache: empty address key")
		}
		addrs = append(addrs, addr)
		lats = append(lats, c.Lat)
		lons = append(lons, c.Lon)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lat, lon, updated_at)
	SELECT address, lat, lon, now()
	FROM unnest($1::text[], $2::double precision[], $3::double precision[]) AS t(address, lat, lon)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
	    lon = EXCLUDED.lon,
	    updated_at = EXCLUDED.updated_at;
	`, addrs, lats, lons)
	if err != nil {
		return fmt.Errorf("put geocode cache (%d addresses): %w", len(addrs), err)
	}
	return nil
}

// Purge deletes entries older than TTL and reports how many were removed.
func (s *SQLGeocodeCache) Purge(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("geocode cache: db is nil")
	}
	if s.TTL <= 0 {
		return 0, nil
	}

	res, err := s.DB.ExecContext(ctx, `
	DELETE FROM geocode_cache
	WHERE updated_at <= now() - make_interval(secs => $1::double precision);
	`, s.ttlSeconds())
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge geocode cache: %w", err)
	}
	return n, nil
}
