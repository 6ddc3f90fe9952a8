package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/iamvkosarev/reply-genie-bot/internal/model"
)

// SubjectRepliesGenerated carries one GenerationEvent per finished generation.
const SubjectRepliesGenerated = "replygenie.replies.generated"

type Publisher interface {
	Publish(subject string, data any) error
}

// GenerationEvent describes a generation without any of the user's text.
type GenerationEvent struct {
	Timestamp      string `json:"timestamp"`
	Mode           string `json:"mode"`
	Tone           string `json:"tone"`
	MessageType    string `json:"message_type"`
	Length         string `json:"length"`
	HistoryLength  int    `json:"history_length"`
	ReplyCount     int    `json:"reply_count"`
	Placeholder    bool   `json:"placeholder"`
	ContextTrimmed bool   `json:"context_trimmed"`
	DurationMS     int64  `json:"duration_ms"`
}

func NewGenerationEvent(
	req model.GenerationRequest, replyCount int, placeholder, trimmed bool, took time.Duration,
) GenerationEvent {
	return GenerationEvent{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Mode:           string(req.Mode),
		Tone:           string(req.Tone),
		MessageType:    string(req.MessageType),
		Length:         string(req.Length),
		HistoryLength:  len(req.History),
		ReplyCount:     replyCount,
		Placeholder:    placeholder,
		ContextTrimmed: trimmed,
		DurationMS:     took.Milliseconds(),
	}
}

// NopPublisher is used when no NATS server is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) error { return nil }

type Client struct {
	conn      *nats.Conn
	logger    *slog.Logger
	closeOnce sync.Once
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("reply-genie"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	c := &Client{conn: nc, logger: logger}
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	return c, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// Close drains the connection once. It is called both on context
// cancellation and by the owner, whichever comes first.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if err := c.conn.Drain(); err != nil {
			c.logger.Warn("nats drain failed", "error", err)
			c.conn.Close()
		}
	})
}
