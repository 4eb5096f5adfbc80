package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nightseek/nightseek/internal/analyze"
	"github.com/nightseek/nightseek/internal/config"
	"github.com/nightseek/nightseek/internal/scoring"
	"github.com/nightseek/nightseek/internal/search"
	"github.com/nightseek/nightseek/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if err := config.RequireLocation(); err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	services, err := config.NewServices(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire services")
	}

	ctx := context.Background()

	if len(os.Args) > 2 && os.Args[1] == "search" {
		query := strings.Join(os.Args[2:], " ")
		runSearch(ctx, services, query)
		return
	}

	runForecast(ctx, cfg, services)
}

func runForecast(ctx context.Context, cfg *models.Config, services *config.Services) {
	start := time.Now()
	forecasts, err := services.Analyzer.Forecast(ctx, start)
	if err != nil {
		log.Fatal().Err(err).Msg("forecast failed")
	}

	fmt.Printf("NightSeek forecast for %.4f, %.4f (%d nights)\n",
		cfg.Latitude, cfg.Longitude, len(forecasts))

	for _, f := range forecasts {
		printNight(f)
	}

	best := analyze.BestDarkNights(forecasts)
	if len(best) > 0 {
		fmt.Printf("\nBest nights for deep-sky imaging:\n")
		for rank, idx := range best {
			if rank >= 3 {
				break
			}
			f := forecasts[idx]
			line := fmt.Sprintf("  %d. %s  moon %.0f%%", rank+1,
				f.Night.Date.Format("Mon Jan 2"), f.Night.MoonIllumination)
			if f.Weather != nil {
				line += fmt.Sprintf("  cloud %.0f%%", f.Weather.AvgCloudCover)
			}
			fmt.Println(line)
		}
	}
}

func printNight(f analyze.NightForecast) {
	fmt.Printf("\n=== %s ===\n", f.Night.Date.Format("Monday, January 2, 2006"))

	if !f.Night.Bounds.Valid() {
		fmt.Println("  No astronomical darkness tonight.")
		return
	}

	fmt.Printf("  Dark from %s to %s\n",
		f.Night.Bounds.Dusk.Format("15:04"), f.Night.Bounds.Dawn.Format("15:04"))
	fmt.Printf("  Moon: %.0f%% illuminated", f.Night.MoonIllumination)
	if f.Moon.IsVisible {
		fmt.Printf(", up to %.0f degrees", f.Moon.MaxAltitude)
	} else {
		fmt.Printf(", below the horizon")
	}
	fmt.Println()

	if f.Weather != nil {
		fmt.Printf("  Clouds: avg %.0f%% (%.0f-%.0f%%), %.1fh clear\n",
			f.Weather.AvgCloudCover, f.Weather.MinCloudCover,
			f.Weather.MaxCloudCover, f.Weather.ClearHours)
		for _, w := range f.Windows {
			fmt.Printf("    %s-%s  %s (avg %.0f%% cloud)\n",
				w.Start.Format("15:04"), w.End.Format("15:04"),
				w.Category, w.AvgCloudCover)
		}
	}

	for _, s := range f.Showers {
		line := fmt.Sprintf("  Meteors: %s (ZHR %d)", s.Name, s.ZHR)
		if s.DaysFromPeak == 0 {
			line += ", peak tonight"
		} else {
			line += fmt.Sprintf(", %dd from peak", s.DaysFromPeak)
		}
		line += fmt.Sprintf(", radiant %.0f degrees", s.RadiantAltitudeDeg)
		fmt.Println(line)
	}
	for _, c := range f.Conjunctions {
		fmt.Printf("  %s\n", c.Description)
	}

	if len(f.Selected) == 0 {
		fmt.Println("  Nothing worth pointing a telescope at tonight.")
		return
	}

	fmt.Printf("  Tonight's targets:\n")
	for i, obj := range f.Selected {
		fmt.Printf("    %d. %s", i+1, obj.ObjectName)
		if obj.Magnitude != nil {
			fmt.Printf(" (mag %.1f)", *obj.Magnitude)
		}
		fmt.Printf("  %.0f/%.0f %s\n", obj.TotalScore, scoring.MaxScore, scoring.ScoreTier(obj.TotalScore))
		if obj.Visibility != nil {
			fmt.Printf("       peak %.0f degrees", obj.Visibility.MaxAltitude)
			if obj.Visibility.MaxAltitudeTime != nil {
				fmt.Printf(" at %s", obj.Visibility.MaxAltitudeTime.Format("15:04"))
			}
			if obj.Visibility.MoonWarning {
				fmt.Printf("  [moon interference]")
			}
			fmt.Println()
		}
		if obj.Reason != "" {
			fmt.Printf("       %s\n", obj.Reason)
		}
	}
}

func runSearch(ctx context.Context, services *config.Services, query string) {
	results, err := services.Searcher.Search(ctx, query, 10)
	if err != nil {
		log.Fatal().Err(err).Str("query", query).Msg("search failed")
	}

	if len(results) == 0 {
		fmt.Printf("No objects matching %q.\n", query)
		return
	}

	for _, r := range results {
		printResult(r)
	}
}

func printResult(r search.Result) {
	fmt.Printf("\n%s", r.Object.DisplayName())
	if r.Object.CommonName != "" && r.Object.CommonName != r.Object.Name {
		fmt.Printf(" (%s)", r.Object.Name)
	}
	fmt.Printf("  [%s]\n", r.Object.Category)
	fmt.Printf("  RA %.2fh  Dec %+.1f\n", r.RAHours, r.DecDeg)

	switch r.Status {
	case models.StatusVisibleTonight:
		fmt.Printf("  Visible tonight")
		if r.Visibility != nil {
			fmt.Printf(": up to %.0f degrees", r.Visibility.MaxAltitude)
			if r.Visibility.MaxAltitudeTime != nil {
				fmt.Printf(" at %s", r.Visibility.MaxAltitudeTime.Format("15:04"))
			}
		}
		fmt.Println()
	case models.StatusVisibleSoon, models.StatusVisibleLater:
		if r.NextVisibleDate != nil {
			fmt.Printf("  Next visible %s\n", r.NextVisibleDate.Format("Jan 2, 2006"))
		}
	case models.StatusNeverVisible:
		fmt.Printf("  Never visible from here: %s\n", r.NeverVisibleReason)
	default:
		if r.NeverVisibleReason != "" {
			fmt.Printf("  Not observable: %s\n", r.NeverVisibleReason)
		} else {
			fmt.Println("  Not observable within the next year.")
		}
	}

	if r.OptimalNote != "" {
		fmt.Printf("  %s\n", r.OptimalNote)
	} else if r.NextOptimalDate != nil && r.Status != models.StatusVisibleTonight {
		fmt.Printf("  Reaches optimal altitude on %s\n", r.NextOptimalDate.Format("Jan 2, 2006"))
	}
}
