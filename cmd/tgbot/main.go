package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nightseek/nightseek/internal/analyze"
	"github.com/nightseek/nightseek/internal/config"
	"github.com/nightseek/nightseek/internal/database"
	"github.com/nightseek/nightseek/internal/scoring"
	"github.com/nightseek/nightseek/internal/search"
	"github.com/nightseek/nightseek/models"
)

// tonightDays keeps bot replies fast: one night instead of the full week.
const tonightDays = 1

var db *database.DB

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	db, err = database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if cfg.TelegramToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize Telegram bot")
	}

	logger.Info().Str("username", bot.Self.UserName).Msg("authorized on Telegram")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		handleMessage(bot, update.Message, cfg, &logger)
	}
}

func handleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message, cfg *models.Config, logger *zerolog.Logger) {
	userID := message.From.ID
	chatID := message.Chat.ID

	// A shared location registers the user's observing site.
	if message.Location != nil {
		_, err := db.UpsertSubscriber(userID, chatID, message.Location.Latitude, message.Location.Longitude)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save location")
			reply(bot, chatID, "Sorry, there was an error saving your location. Please try again later.")
			return
		}
		reply(bot, chatID, fmt.Sprintf(
			"Location saved: %.4f, %.4f\nUse /tonight to see what's worth observing.",
			message.Location.Latitude, message.Location.Longitude))
		return
	}

	switch {
	case strings.HasPrefix(message.Text, "/start"):
		msg := tgbotapi.NewMessage(chatID,
			"Welcome to NightSeek! Share your location and I'll tell you what's worth pointing a telescope at.\n\n"+
				"/tonight - targets for tonight\n"+
				"/find <name> - look up an object (e.g. /find M31)\n"+
				"/stop - delete your stored location")
		msg.ReplyMarkup = locationKeyboard()
		bot.Send(msg)
	case strings.HasPrefix(message.Text, "/tonight"):
		handleTonight(bot, userID, chatID, cfg, logger)
	case strings.HasPrefix(message.Text, "/find"):
		query := strings.TrimSpace(strings.TrimPrefix(message.Text, "/find"))
		handleFind(bot, userID, chatID, query, cfg, logger)
	case strings.HasPrefix(message.Text, "/stop"):
		if err := db.DeleteSubscriber(userID); err != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("failed to delete subscriber")
			reply(bot, chatID, "Sorry, there was an error. Please try again later.")
			return
		}
		reply(bot, chatID, "Your location has been deleted. Share it again any time to resubscribe.")
	default:
		reply(bot, chatID, "Use /tonight for tonight's targets or /find <name> to look up an object.")
	}
}

func handleTonight(bot *tgbotapi.BotAPI, userID, chatID int64, cfg *models.Config, logger *zerolog.Logger) {
	sub, err := db.GetSubscriber(userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load subscriber")
		reply(bot, chatID, "Sorry, there was an error. Please try again later.")
		return
	}
	if sub == nil {
		msg := tgbotapi.NewMessage(chatID, "I don't know where you observe from yet. Share your location first.")
		msg.ReplyMarkup = locationKeyboard()
		bot.Send(msg)
		return
	}

	processing := tgbotapi.NewMessage(chatID, "Checking tonight's sky...")
	sent, _ := bot.Send(processing)

	services, err := servicesFor(cfg, sub.Latitude, sub.Longitude, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to wire services")
		reply(bot, chatID, "Sorry, there was an error. Please try again later.")
		return
	}

	forecasts, err := services.Analyzer.Forecast(context.Background(), time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("forecast failed")
		reply(bot, chatID, "Sorry, the forecast failed. Please try again later.")
		return
	}

	text := formatTonight(forecasts[0])
	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, text)
	bot.Send(edit)

	archiveRun(forecasts[0], sub, logger)
}

func handleFind(bot *tgbotapi.BotAPI, userID, chatID int64, query string, cfg *models.Config, logger *zerolog.Logger) {
	if query == "" {
		reply(bot, chatID, "Tell me what to look for, e.g. /find Andromeda or /find NGC 7000")
		return
	}

	sub, err := db.GetSubscriber(userID)
	if err != nil || sub == nil {
		msg := tgbotapi.NewMessage(chatID, "Share your location first so I can compute visibility for your sky.")
		msg.ReplyMarkup = locationKeyboard()
		bot.Send(msg)
		return
	}

	services, err := servicesFor(cfg, sub.Latitude, sub.Longitude, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to wire services")
		reply(bot, chatID, "Sorry, there was an error. Please try again later.")
		return
	}

	results, err := services.Searcher.Search(context.Background(), query, 5)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("search failed")
		reply(bot, chatID, "Sorry, the search failed. Please try again later.")
		return
	}
	if len(results) == 0 {
		reply(bot, chatID, fmt.Sprintf("No objects matching %q.", query))
		return
	}

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(formatResult(r))
		sb.WriteString("\n")
	}
	reply(bot, chatID, sb.String())
}

// servicesFor rebuilds the pipeline for one subscriber's coordinates.
func servicesFor(cfg *models.Config, lat, lon float64, logger *zerolog.Logger) (*config.Services, error) {
	local := *cfg
	local.Latitude = lat
	local.Longitude = lon
	local.ForecastDays = tonightDays
	return config.NewServices(&local, *logger)
}

func formatTonight(f analyze.NightForecast) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tonight, %s\n", f.Night.Date.Format("Monday, January 2")))

	if !f.Night.Bounds.Valid() {
		sb.WriteString("No astronomical darkness tonight.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Dark %s-%s, moon %.0f%%\n",
		f.Night.Bounds.Dusk.Format("15:04"), f.Night.Bounds.Dawn.Format("15:04"),
		f.Night.MoonIllumination))
	if f.Weather != nil {
		sb.WriteString(fmt.Sprintf("Clouds avg %.0f%%, %.1fh clear\n",
			f.Weather.AvgCloudCover, f.Weather.ClearHours))
	}
	for _, s := range f.Showers {
		sb.WriteString(fmt.Sprintf("Meteors: %s, ZHR %d, %dd from peak\n",
			s.Name, s.ZHR, s.DaysFromPeak))
	}
	for _, c := range f.Conjunctions {
		if c.IsNotable() {
			sb.WriteString(c.Description)
			sb.WriteString("\n")
		}
	}

	if len(f.Selected) == 0 {
		sb.WriteString("\nNothing worth observing tonight.")
		return sb.String()
	}

	sb.WriteString("\nTargets:\n")
	for i, obj := range f.Selected {
		sb.WriteString(fmt.Sprintf("%d. %s - %.0f (%s)",
			i+1, obj.ObjectName, obj.TotalScore, scoring.ScoreTier(obj.TotalScore)))
		if obj.Visibility != nil && obj.Visibility.MaxAltitudeTime != nil {
			sb.WriteString(fmt.Sprintf(", peak %.0f deg at %s",
				obj.Visibility.MaxAltitude, obj.Visibility.MaxAltitudeTime.Format("15:04")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatResult(r search.Result) string {
	var sb strings.Builder
	sb.WriteString(r.Object.DisplayName())
	sb.WriteString(fmt.Sprintf(" [%s]\n", r.Object.Category))

	switch r.Status {
	case models.StatusVisibleTonight:
		sb.WriteString("Visible tonight")
		if r.Visibility != nil {
			sb.WriteString(fmt.Sprintf(", up to %.0f deg", r.Visibility.MaxAltitude))
		}
		sb.WriteString("\n")
	case models.StatusVisibleSoon, models.StatusVisibleLater:
		if r.NextVisibleDate != nil {
			sb.WriteString(fmt.Sprintf("Next visible %s\n", r.NextVisibleDate.Format("Jan 2")))
		}
	case models.StatusNeverVisible:
		sb.WriteString(fmt.Sprintf("Never visible from your location: %s\n", r.NeverVisibleReason))
	default:
		sb.WriteString("Not observable within the next year\n")
	}
	return sb.String()
}

func archiveRun(f analyze.NightForecast, sub *database.Subscriber, logger *zerolog.Logger) {
	if len(f.Selected) == 0 {
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
		logger.Error().Err(err).Msg("failed to archive forecast run")
	}
}

func locationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("Share my location"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func reply(bot *tgbotapi.BotAPI, chatID int64, text string) {
	bot.Send(tgbotapi.NewMessage(chatID, text))
}
