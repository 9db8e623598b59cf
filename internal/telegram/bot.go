package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"ai-garden-planner/internal/config"
	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/metrics"
	"ai-garden-planner/internal/planner"
	"ai-garden-planner/internal/search"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the garden planner and search index.
type Bot struct {
	api          *tgbotapi.BotAPI
	searchIndex  *search.Index
	synthesizer  *planner.Synthesizer
	locations    location.Provider
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	searchIndex *search.Index,
	synthesizer *planner.Synthesizer,
	locations location.Provider,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		searchIndex:  searchIndex,
		synthesizer:  synthesizer,
		locations:    locations,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case strings.HasPrefix(text, "/plan"):
		b.handlePlanRequest(msg)
	default:
		b.handleSearchRequest(msg)
	}
}

func (b *Bot) handleSearchRequest(msg *tgbotapi.Message) {
	ctx := context.Background()
	results := b.searchIndex.Search(ctx, msg.Text, false, 10)
	if len(results) == 0 {
		b.send(msg.Chat.ID, fmt.Sprintf("🔍 No plants found for *%s*.", msg.Text))
		return
	}

	var sb strings.Builder
	sb.WriteString("🌱 *Plants*\n\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("• *%s* (%s): %d days to harvest, %s\n",
			r.Record.Name, r.Source, r.Record.DaysToHarvest, r.Record.Sun))
	}
	b.send(msg.Chat.ID, sb.String())
}

// handlePlanRequest parses "/plan <postal code> plant, plant, ..." and
// replies with the synthesized plan.
func (b *Bot) handlePlanRequest(msg *tgbotapi.Message) {
	postalCode, names, err := parsePlanCommand(msg.Text)
	if err != nil {
		b.send(msg.Chat.ID, "Usage: `/plan 49503 tomato, basil, lettuce`")
		return
	}

	statusText := "🧑‍🌾 *Thinking...* \n(Resolving plants and building your garden plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	plan, err := b.generatePlan(ctx, postalCode, names)

	var finalText string
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
	} else {
		finalText = formatPlanMarkdown(plan)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) generatePlan(ctx context.Context, postalCode string, names []string) (*planner.GardenPlan, error) {
	loc, err := b.locations.ResolveLocation(ctx, postalCode)
	if err != nil {
		return nil, err
	}
	return b.synthesizer.Synthesize(ctx, loc, names, planner.Options{
		IncludeGenerated:   true,
		EnrichInstructions: false,
	})
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(b.cfg.DatabaseDir())

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Generation Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d calls, %d failed)\n",
			d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalCalls, d.Failures))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.send(chatID, sb.String())
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

// parsePlanCommand splits "/plan 49503 tomato, basil" into the postal code
// and the comma-separated plant names.
func parsePlanCommand(text string) (string, []string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "/plan"))
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) < 2 {
		return "", nil, fmt.Errorf("plan command needs a postal code and plant names")
	}

	postalCode := fields[0]
	var names []string
	for _, name := range strings.Split(fields[1], ",") {
		if n := strings.TrimSpace(name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("plan command needs at least one plant name")
	}
	return postalCode, names, nil
}

func formatPlanMarkdown(plan *planner.GardenPlan) string {
	var sb strings.Builder
	sb.WriteString("🌻 *Garden Plan*\n")
	sb.WriteString(fmt.Sprintf("_Zone %s, frost-free %s to %s_\n\n",
		plan.Location.USDAZone,
		plan.Location.LastFrostDate.Format("Jan 2"),
		plan.Location.FirstFrostDate.Format("Jan 2")))

	for _, p := range plan.Plants {
		sb.WriteString(fmt.Sprintf("*%s*\n", p.Record.Name))
		s := p.Schedule
		if s.StartIndoorsDate != nil {
			sb.WriteString(fmt.Sprintf("Indoors %s, transplant %s",
				s.StartIndoorsDate.Format("Jan 2"), s.TransplantDate.Format("Jan 2")))
		} else {
			sb.WriteString(fmt.Sprintf("Sow %s", s.DirectSowDate.Format("Jan 2")))
		}
		sb.WriteString(fmt.Sprintf(", harvest %s-%s\n\n",
			s.HarvestStartDate.Format("Jan 2"), s.HarvestEndDate.Format("Jan 2")))
	}

	if len(plan.Unresolved) > 0 {
		sb.WriteString(fmt.Sprintf("⚠️ Could not resolve: %s\n", strings.Join(plan.Unresolved, ", ")))
	}
	return sb.String()
}
