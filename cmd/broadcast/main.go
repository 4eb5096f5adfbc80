// Broadcast computes tonight's forecast for every subscriber and pushes
// the shortlist to their chat. Run it from cron in the late afternoon.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/analyze"
	"github.com/nightseek/nightseek/internal/config"
	"github.com/nightseek/nightseek/internal/database"
	"github.com/nightseek/nightseek/internal/scoring"
	"github.com/nightseek/nightseek/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set in environment")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	subs, err := db.ListSubscribers()
	if err != nil {
		log.Fatalf("Failed to list subscribers: %v", err)
	}

	log.Printf("Found %d subscribers", len(subs))

	logger := zerolog.Nop()
	ctx := context.Background()

	successCount := 0
	errorCount := 0

	for i, sub := range subs {
		text, forecast, err := tonightFor(ctx, cfg, sub, logger)
		if err != nil {
			log.Printf("Forecast failed for user %d: %v", sub.UserID, err)
			errorCount++
			continue
		}

		msg := tgbotapi.NewMessage(sub.ChatID, text)
		if _, err := bot.Send(msg); err != nil {
			log.Printf("Failed to send to user %d (chat_id: %d): %v", sub.UserID, sub.ChatID, err)
			errorCount++
		} else {
			log.Printf("Sent to user %d [%d/%d]", sub.UserID, i+1, len(subs))
			successCount++
			archive(db, forecast, sub)
		}

		// Stay under Telegram's bot message rate.
		if i < len(subs)-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	log.Printf("Broadcast completed: %d sent, %d failed out of %d", successCount, errorCount, len(subs))
}

func tonightFor(ctx context.Context, base *models.Config, sub database.Subscriber, logger zerolog.Logger) (string, *analyze.NightForecast, error) {
	cfg := *base
	cfg.Latitude = sub.Latitude
	cfg.Longitude = sub.Longitude
	cfg.ForecastDays = 1

	services, err := config.NewServices(&cfg, logger)
	if err != nil {
		return "", nil, err
	}

	forecasts, err := services.Analyzer.Forecast(ctx, time.Now())
	if err != nil {
		return "", nil, err
	}
	f := forecasts[0]

	text := fmt.Sprintf("NightSeek: tonight, %s\n", f.Night.Date.Format("Monday, January 2"))
	if !f.Night.Bounds.Valid() {
		return text + "No astronomical darkness tonight.", &f, nil
	}

	text += fmt.Sprintf("Dark %s-%s, moon %.0f%%\n",
		f.Night.Bounds.Dusk.Format("15:04"), f.Night.Bounds.Dawn.Format("15:04"),
		f.Night.MoonIllumination)
	if f.Weather != nil {
		text += fmt.Sprintf("Clouds avg %.0f%%\n", f.Weather.AvgCloudCover)
	}

	if len(f.Selected) == 0 {
		return text + "\nNothing worth observing tonight.", &f, nil
	}

	text += "\nTargets:\n"
	for i, obj := range f.Selected {
		text += fmt.Sprintf("%d. %s - %.0f (%s)\n",
			i+1, obj.ObjectName, obj.TotalScore, scoring.ScoreTier(obj.TotalScore))
	}
	return text, &f, nil
}

func archive(db *database.DB, f *analyze.NightForecast, sub database.Subscriber) {
	if f == nil || len(f.Selected) == 0 {
		return
	}
	top := f.Selected[0]
	run := database.ForecastRun{
		RunAt:     time.Now(),
		NightDate: f.Night.Date,
		Latitude:  sub.Latitude,
		Longitude: sub.Longitude,
		TopObject: top.ObjectName,
		TopScore:  top.TotalScore,
		MoonIllum: f.Night.MoonIllumination,
	}
	if f.Weather != nil {
		avg := f.Weather.AvgCloudCover
		run.CloudCover = &avg
	}
	if err := db.RecordForecastRun(run); err != nil {
		log.Printf("Failed to archive forecast run for user %d: %v", sub.UserID, err)
	}
}
