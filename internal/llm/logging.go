package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/store"
)

// LoggingProvider records each request as an LLM request event and a
// structured log line.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      *zap.Logger
	now      func() time.Time
}

// WithLogging wraps p. name is the vendor recorded on each event.
func WithLogging(p Provider, name string, events store.EventRepo, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: name, events: events, log: log, now: time.Now}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	latency := l.now().Sub(start)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = resp.Text
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("llm request", fields...)
	}

	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(ctx, ev); logErr != nil {
			l.log.Warn("record llm request event", zap.Error(logErr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// renderRequest flattens req into the text stored with the event.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}
