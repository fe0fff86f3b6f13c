// Command routeflow plans a route from free-form delivery text and prints it.
//
//	echo "Entregas: Av. Paulista, 1000; Rua Augusta, 500" | routeflow -format table
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"routeflow-service/internal/api/dto"
	"routeflow-service/internal/app"
	"routeflow-service/internal/config"
	"routeflow-service/internal/domain"
	"routeflow-service/internal/platform/obs"
	"routeflow-service/internal/ports"
	"routeflow-service/internal/render"
	"routeflow-service/internal/services"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	text := flag.String("text", "", "delivery text; read from stdin when empty")
	format := flag.String("format", "table", "output format: table, json or geojson")
	save := flag.Bool("save", false, "store the plan in the database (requires DATABASE_URL)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	obs.SetupLogger(cfg.LogLevel, true)

	if err := run(cfg, *text, *format, *save, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, ports.ErrNoAddresses) {
			fmt.Fprintln(os.Stderr, "No addresses found in the text.")
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("routeflow failed")
	}
}

func run(cfg config.Config, text, format string, save bool, stdin io.Reader, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if format != "table" && format != "json" && format != "geojson" {
		return fmt.Errorf("unknown format %q", format)
	}
	if save && strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("-save requires DATABASE_URL; plans are not kept without a database")
	}

	if strings.TrimSpace(text) == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("no input text")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := services.PlanFromText(
		ctx,
		services.PlanFromTextRequest{RawText: text, Concurrency: cfg.GeocodeConcurrency},
		a.Extractor,
		a.Geocoder,
	)
	if err != nil {
		return err
	}

	if save {
		if err := a.Plans.Save(ctx, plan); err != nil {
			return err
		}
		log.Info().Str("id", plan.ID).Msg("plan saved")
	}

	return writePlan(stdout, plan, format)
}

func writePlan(w io.Writer, plan *domain.RoutePlan, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewPlanResponse(plan))
	case "geojson":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(render.GeoJSON(plan.Route))
	}

	if len(plan.Route.Stops) == 0 {
		fmt.Fprintln(w, "No address could be located.")
	} else if err := render.Table(w, plan.Route); err != nil {
		return err
	}
	if len(plan.Unresolved) > 0 {
		fmt.Fprintf(w, "Not located: %s\n", strings.Join(plan.Unresolved, "; "))
	}
	return nil
}
