package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"talentscout-bot/internal/intake"
	"talentscout-bot/internal/metrics"

	"go.uber.org/zap"
)

const maxMessageLength = 4000

const helpText = `TalentScout hiring assistant

Send your details as free text, for example:
Full Name: Jane Doe
Email: jane@example.com
Tech Stack: Python, Go

Commands:
/start - begin a new application
/status - show your progress
/restart - discard the current session and start over
/finish - complete the assessment and get your answers
/help - show this message`

type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
	}
}

func (rl *RateLimiter) IsAllowed(userID int64) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	if requests, exists := rl.requests[userID]; exists {
		var valid []time.Time
		for _, t := range requests {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		rl.requests[userID] = valid
	}

	if len(rl.requests[userID]) >= rl.limit {
		return false
	}

	rl.requests[userID] = append(rl.requests[userID], now)
	return true
}

// Sender delivers replies to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
}

// Handler maps Telegram users onto intake sessions.
type Handler struct {
	sender      Sender
	registry    *intake.Registry
	dialog      *intake.Dialog
	metrics     *metrics.Metrics
	rateLimiter *RateLimiter
	log         *zap.SugaredLogger
}

func NewHandler(sender Sender, registry *intake.Registry, dialog *intake.Dialog, m *metrics.Metrics, rateLimit int) *Handler {
	return &Handler{
		sender:      sender,
		registry:    registry,
		dialog:      dialog,
		metrics:     m,
		rateLimiter: NewRateLimiter(rateLimit, time.Minute),
		log:         zap.S().Named("telegram"),
	}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("tg-%d", userID)
}

func (h *Handler) HandleUpdate(ctx context.Context, update Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if !h.rateLimiter.IsAllowed(userID) {
		h.send(ctx, chatID, "Too many messages. Please wait a minute.")
		return
	}

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, userID, text)
		return
	}

	if err := validateUserInput(text); err != nil {
		h.send(ctx, chatID, err.Error())
		return
	}
	h.handleUserInput(ctx, chatID, userID, text)
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, command string) {
	// strip bot mentions such as /start@talentscout_bot
	name := strings.ToLower(strings.Fields(command)[0])
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}

	switch name {
	case "/start", "/restart":
		h.handleStartCommand(ctx, chatID, userID)
	case "/help":
		h.send(ctx, chatID, helpText)
	case "/status":
		h.handleStatusCommand(ctx, chatID, userID)
	case "/finish":
		h.handleUserInput(ctx, chatID, userID, "finish")
	default:
		h.send(ctx, chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (h *Handler) handleStartCommand(ctx context.Context, chatID, userID int64) {
	key := sessionKey(userID)
	h.registry.Reset(key)

	var reply intake.Reply
	err := h.registry.Do(key, func(s *intake.Session) error {
		reply = h.dialog.Start(s)
		return nil
	})
	if err != nil {
		h.log.Errorf("failed to start session for user %d: %v", userID, err)
		return
	}
	h.deliver(ctx, chatID, reply)
}

func (h *Handler) handleStatusCommand(ctx context.Context, chatID, userID int64) {
	var status string
	err := h.registry.Do(sessionKey(userID), func(s *intake.Session) error {
		status = describeSession(s)
		return nil
	})
	if errors.Is(err, intake.ErrUnknownSession) {
		status = "No application in progress. Use /start to begin."
	}

	snap := h.metrics.GetSnapshot()
	h.send(ctx, chatID, fmt.Sprintf("%s\n\nSessions started: %d\nSessions completed: %d",
		status, snap.SessionsStarted, snap.SessionsCompleted))
}

func describeSession(s *intake.Session) string {
	switch s.State {
	case intake.StateCollecting:
		missing := s.Missing()
		if len(missing) == 0 {
			return "All details collected. Waiting for your technical questions."
		}
		return fmt.Sprintf("Collecting your details. Still missing: %s.", strings.Join(missing, ", "))
	case intake.StateAnswering:
		return fmt.Sprintf("Answering questions: %d of %d answered.", s.AnsweredCount(), s.Questions.Total())
	default:
		return "Assessment complete. Send /finish to get your answers again."
	}
}

func (h *Handler) handleUserInput(ctx context.Context, chatID, userID int64, text string) {
	key := sessionKey(userID)
	if _, created := h.registry.Bind(key); created {
		var greeting intake.Reply
		_ = h.registry.Do(key, func(s *intake.Session) error {
			greeting = h.dialog.Start(s)
			return nil
		})
		h.deliver(ctx, chatID, greeting)
	}

	var reply intake.Reply
	err := h.registry.Do(key, func(s *intake.Session) error {
		reply = h.dialog.Handle(ctx, s, text)
		return nil
	})
	if err != nil {
		h.log.Errorf("failed to handle message from user %d: %v", userID, err)
		h.send(ctx, chatID, "Something went wrong. Use /start to begin again.")
		return
	}
	h.deliver(ctx, chatID, reply)
}

func (h *Handler) deliver(ctx context.Context, chatID int64, reply intake.Reply) {
	for _, msg := range reply.Messages {
		h.send(ctx, chatID, msg)
	}
	for _, a := range reply.Attachments {
		if err := h.sender.SendDocument(ctx, chatID, a.Name, a.Data); err != nil {
			h.log.Warnf("failed to send %s to chat %d: %v", a.Name, chatID, err)
		}
	}
}

func (h *Handler) send(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.log.Warnf("failed to send message to chat %d: %v", chatID, err)
	}
}

func validateUserInput(text string) error {
	if text == "" {
		return fmt.Errorf("please send a text message")
	}
	if len(text) > maxMessageLength {
		return fmt.Errorf("message is too long (maximum %d characters)", maxMessageLength)
	}

	// repeated-character spam
	if len(text) > 10 && strings.Count(text, text[:1]) > len(text)*8/10 {
		return fmt.Errorf("message contains too many repeated characters")
	}

	return nil
}
