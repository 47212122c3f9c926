package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
	"github.com/tifye/onduty/duty"
)

const (
	discordMaxMessageLength = 2000
	sendTimeout             = 10 * time.Second
)

var ErrInvalidWebhookURL = errors.New("invalid discord webhook url")

// Webhook posts shift summaries to a Discord channel.
type Webhook struct {
	logger *log.Logger
	sesh   *discordgo.Session
	id     string
	token  string
}

func NewWebhook(logger *log.Logger, webhookURL string) (*Webhook, error) {
	assert.AssertNotNil(logger)

	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// Webhook execution is authorised by the token in the URL.
	sesh, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("new discord session: %s", err)
	}

	return &Webhook{
		logger: logger,
		sesh:   sesh,
		id:     id,
		token:  token,
	}, nil
}

// ParseWebhookURL extracts the webhook id and token from a URL of the
// form https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidWebhookURL, err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", "", fmt.Errorf("%w: expected an https url", ErrInvalidWebhookURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%w: missing webhook id or token", ErrInvalidWebhookURL)
}

// Notify sends the summary. It gives up after a fixed timeout.
func (w *Webhook) Notify(ctx context.Context, s duty.Summary) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := w.sesh.WebhookExecute(w.id, w.token, false, &discordgo.WebhookParams{
		Content: Message(s),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("execute webhook: %s", err)
	}
	w.logger.Debug("shift summary sent", "outcome", s.Phase)
	return nil
}

// Message renders a summary as Discord markdown.
func Message(s duty.Summary) string {
	var b strings.Builder
	switch s.Phase {
	case duty.PhaseOverload:
		b.WriteString("**Shift failed.** Too many anomalies active at one time.")
	case duty.PhaseTimeUp:
		b.WriteString("**Shift completed.**")
	case duty.PhaseQuit:
		b.WriteString("**Shift abandoned.**")
	default:
		b.WriteString("**Shift in progress.**")
	}
	fmt.Fprintf(&b, "\nTime: `%s`\nFound %d out of %d total anomalies.", s.Clock, s.Found, s.Total)

	if len(s.Remaining) > 0 {
		b.WriteString("\nStill active:")
		for _, a := range s.Remaining {
			fmt.Fprintf(&b, "\n- %s: %s", a.Room, a.Kind)
		}
	}

	// Discord counts characters, not bytes.
	msg := []rune(b.String())
	if len(msg) > discordMaxMessageLength {
		return string(msg[:discordMaxMessageLength-3]) + "..."
	}
	return string(msg)
}
