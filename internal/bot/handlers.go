package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sportnumerics/sportnumerics/internal/service"
	"github.com/sportnumerics/sportnumerics/internal/source"
)

const (
	topTeams   = 25
	topPlayers = 10
)

const helpText = `Available commands:
/divs - List divisions
/top <div> [year] - Top teams in a division
/players <div> [year] - Top players in a division
/team <name> - Team rank, results and projections
/predict <team> vs <team> - Projected score`

type Handler struct {
	statsService *service.StatsService
}

func NewHandler(statsService *service.StatsService) *Handler {
	return &Handler{statsService: statsService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch command {
	case "start":
		msg.Text = "Welcome to Sport Numerics! Use /help to see available commands."
	case "help":
		msg.Text = helpText
		msg.ParseMode = ""
	case "divs":
		msg.Text = h.statsService.GetDivisions()
	case "top":
		h.handleTop(ctx, &msg, args)
	case "players":
		h.handlePlayers(ctx, &msg, args)
	case "team":
		h.handleTeam(ctx, &msg, args)
	case "predict":
		h.handlePredict(ctx, &msg, args)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

// divisionArgs splits "<div> [year]".
func divisionArgs(args string) (div, year string, ok bool) {
	fields := strings.Fields(strings.ToLower(args))
	switch len(fields) {
	case 1:
		return fields[0], "", true
	case 2:
		return fields[0], fields[1], true
	default:
		return "", "", false
	}
}

func (h *Handler) handleTop(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	div, year, ok := divisionArgs(args)
	if !ok {
		msg.Text = "Please provide a division. Usage: /top <div> [year]"
		return
	}
	report, err := h.statsService.GetTopTeams(ctx, year, div, topTeams)
	if err != nil {
		msg.Text = errorText("Error fetching teams", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handlePlayers(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	div, year, ok := divisionArgs(args)
	if !ok {
		msg.Text = "Please provide a division. Usage: /players <div> [year]"
		return
	}
	report, err := h.statsService.GetTopPlayers(ctx, year, div, topPlayers)
	if err != nil {
		msg.Text = errorText("Error fetching players", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleTeam(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team name. Usage: /team <team name>"
		return
	}
	report, err := h.statsService.GetTeamReport(ctx, "", args)
	if err != nil {
		msg.Text = errorText("Error getting team", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handlePredict(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	a, b, ok := splitVersus(args)
	if !ok {
		msg.Text = "Please provide two teams. Usage: /predict <team> vs <team>"
		return
	}
	report, err := h.statsService.GetMatchupReport(ctx, "", a, b)
	if err != nil {
		msg.Text = errorText("Error projecting matchup", err)
	} else {
		msg.Text = report
	}
}

func splitVersus(args string) (string, string, bool) {
	lower := strings.ToLower(args)
	for _, sep := range []string{" vs. ", " vs ", " @ "} {
		if i := strings.Index(lower, sep); i >= 0 {
			a := strings.TrimSpace(args[:i])
			b := strings.TrimSpace(args[i+len(sep):])
			return a, b, a != "" && b != ""
		}
	}
	return "", "", false
}

func errorText(prefix string, err error) string {
	if errors.Is(err, source.ErrNotFound) {
		return "No data available for that division or season. Use /divs to see divisions."
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}
