package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/obs"
	"routeflow-service/internal/ports"
	"routeflow-service/internal/render"
)

type stopRecord struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	IsDepot bool    `json:"is_depot"`
}

func toStopRecords(stops []domain.Point) []stopRecord {
	out := make([]stopRecord, 0, len(stops))
	for _, s := range stops {
		out = append(out, stopRecord{Address: s.Address, Lat: s.Lat, Lon: s.Lon, IsDepot: s.IsDepot})
	}
	return out
}

func fromStopRecords(recs []stopRecord) []domain.Point {
	out := make([]domain.Point, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.Point{
			Address:     r.Address,
			Coordinates: domain.Coordinates{Lat: r.Lat, Lon: r.Lon},
			IsDepot:     r.IsDepot,
		})
	}
	return out
}

// Postgres-backed implementation of the RoutePlanRepository port.
// Stops are stored as JSONB in visiting order; the route path is also kept
// as WKB for GIS consumers.
type PostgresPlanRepository struct{ DB *sql.DB }

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{DB: db}
}

func (p *PostgresPlanRepository) Save(ctx context.Context, plan *domain.RoutePlan) (err error) {
	defer obs.Time(ctx, "plans.postgres.Save")(&err)

	if p.DB == nil {
		return errors.New("postgres plan repository: DB is nil")
	}
	if plan == nil || plan.ID == "" {
		return errors.New("save plan: plan id must be non-empty")
	}
	if !validPlanID(plan.ID) {
		return fmt.Errorf("save plan: id %q is not a UUID", plan.ID)
	}

	stops, err := json.Marshal(toStopRecords(plan.Route.Stops))
	if err != nil {
		return fmt.Errorf("save plan: marshal stops: %w", err)
	}

	unresolved := plan.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}
	unresolvedJSON, err := json.Marshal(unresolved)
	if err != nil {
		return fmt.Errorf("save plan: marshal unresolved: %w", err)
	}

	path, err := render.PathWKB(plan.Route)
	if err != nil {
		return fmt.Errorf("save plan: encode path: %w", err)
	}

	query := `
	INSERT INTO route_plans (
		id,
		raw_input,
		stops,
		unresolved,
		total_distance_km,
		path_wkb,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET raw_input = EXCLUDED.raw_input,
		stops = EXCLUDED.stops,
		unresolved = EXCLUDED.unresolved,
		total_distance_km = EXCLUDED.total_distance_km,
		path_wkb = EXCLUDED.path_wkb,
		created_at = EXCLUDED.created_at;
	`
	if _, err := p.DB.ExecContext(
		ctx, query,
		plan.ID, plan.RawInput, string(stops), string(unresolvedJSON),
		plan.Route.TotalDistanceKm, path, plan.CreatedAt,
	); err != nil {
		return fmt.Errorf("save plan id=%s: %w", plan.ID, err)
	}

	return nil
}

const selectPlanColumns = `
	SELECT
		id::text,
		raw_input,
		stops,
		unresolved,
		total_distance_km,
		created_at
	FROM route_plans
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.RoutePlan, error) {
	var (
		plan           domain.RoutePlan
		stopsJSON      []byte
		unresolvedJSON []byte
	)
	if err := row.Scan(
		&plan.ID,
		&plan.RawInput,
		&stopsJSON,
		&unresolvedJSON,
		&plan.Route.TotalDistanceKm,
		&plan.CreatedAt,
	); err != nil {
		return nil, err
	}

	var recs []stopRecord
	if err := json.Unmarshal(stopsJSON, &recs); err != nil {
		return nil, fmt.Errorf("decode stops: %w", err)
	}
	plan.Route.Stops = fromStopRecords(recs)

	if err := json.Unmarshal(unresolvedJSON, &plan.Unresolved); err != nil {
		return nil, fmt.Errorf("decode unresolved: %w", err)
	}

	return &plan, nil
}

func (p *PostgresPlanRepository) Get(ctx context.Context, id string) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "plans.postgres.Get")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres plan repository: DB is nil")
	}
	if !validPlanID(id) {
		return nil, fmt.Errorf("get plan id=%q: %w", id, ports.ErrPlanNotFound)
	}

	plan, err := scanPlan(p.DB.QueryRowContext(ctx, selectPlanColumns+`WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan id=%s: %w", id, ports.ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan id=%s: %w", id, err)
	}

	return plan, nil
}

func (p *PostgresPlanRepository) Delete(ctx context.Context, id string) error {
	if p.DB == nil {
		return errors.New("postgres plan repository: DB is nil")
	}
	if !validPlanID(id) {
		return fmt.Errorf("delete plan id=%q: %w", id, ports.ErrPlanNotFound)
	}

	res, err := p.DB.ExecContext(ctx, `DELETE FROM route_plans WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete plan id=%s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan id=%s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete plan id=%s: %w", id, ports.ErrPlanNotFound)
	}

	return nil
}

// Return the most recent plans first.
func (p *PostgresPlanRepository) List(ctx context.Context, limit int) ([]*domain.RoutePlan, error) {
	if p.DB == nil {
		return nil, errors.New("postgres plan repository: DB is nil")
	}
	if limit <= 0 {
		return []*domain.RoutePlan{}, nil
	}

	rows, err := p.DB.QueryContext(ctx, selectPlanColumns+`ORDER BY created_at DESC, id LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: query route_plans table: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.RoutePlan, 0, limit)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return plans, nil
}
