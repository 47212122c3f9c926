package notify

import (
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tifye/onduty/duty"
)

func TestParseWebhookURL(t *testing.T) {
	tt := []struct {
		name  string
		url   string
		id    string
		token string
		err   bool
	}{
		{name: "discord", url: "https://discord.com/api/webhooks/1234/abc-DEF_ghi", id: "1234", token: "abc-DEF_ghi"},
		{name: "versioned", url: "https://discord.com/api/v10/webhooks/99/tok/", id: "99", token: "tok"},
		{name: "whitespace", url: "  https://discordapp.com/api/webhooks/1/t \n", id: "1", token: "t"},
		{name: "http", url: "http://discord.com/api/webhooks/1/t", err: true},
		{name: "missing token", url: "https://discord.com/api/webhooks/1", err: true},
		{name: "not a webhook", url: "https://discord.com/channels/1/2", err: true},
		{name: "garbage", url: "://nope", err: true},
		{name: "empty", url: "", err: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			id, token, err := ParseWebhookURL(tc.url)
			if tc.err {
				assert.ErrorIs(t, err, ErrInvalidWebhookURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, id)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestNewWebhook(t *testing.T) {
	w, err := NewWebhook(log.New(io.Discard), "https://discord.com/api/webhooks/1234/abc")
	require.NoError(t, err)
	assert.Equal(t, "1234", w.id)
	assert.Equal(t, "abc", w.token)

	_, err = NewWebhook(log.New(io.Discard), "https://example.com")
	assert.ErrorIs(t, err, ErrInvalidWebhookURL)
}

func TestMessage(t *testing.T) {
	msg := Message(duty.Summary{
		Phase: duty.PhaseOverload,
		Clock: "03:20",
		Found: 2,
		Total: 6,
		Remaining: []duty.ActiveAnomaly{
			{Room: "KITCHEN", Kind: "TYPO"},
			{Room: "BEDROOM", Kind: "MISSING ITEM"},
		},
	})
	assert.Equal(t, "**Shift failed.** Too many anomalies active at one time.\n"+
		"Time: `03:20`\nFound 2 out of 6 total anomalies.\n"+
		"Still active:\n- KITCHEN: TYPO\n- BEDROOM: MISSING ITEM", msg)

	assert.True(t, strings.HasPrefix(Message(duty.Summary{Phase: duty.PhaseTimeUp}), "**Shift completed.**"))
}

func TestMessageIsTruncated(t *testing.T) {
	var remaining []duty.ActiveAnomaly
	for range 200 {
		remaining = append(remaining, duty.ActiveAnomaly{Room: "A VERY LONG ROOM NAME", Kind: "CAMERA MALFUNCTION"})
	}
	msg := Message(duty.Summary{Phase: duty.PhaseOverload, Remaining: remaining})
	assert.Len(t, msg, discordMaxMessageLength)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestMessageIsTruncatedOnRunes(t *testing.T) {
	var remaining []duty.ActiveAnomaly
	for range 200 {
		remaining = append(remaining, duty.ActiveAnomaly{Room: "DACHGESCHOSS ÜBER DER KÜCHE", Kind: "TYPO"})
	}
	msg := Message(duty.Summary{Phase: duty.PhaseOverload, Remaining: remaining})
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, discordMaxMessageLength, utf8.RuneCountInString(msg))
	assert.True(t, strings.HasSuffix(msg, "..."))
}
