package insights

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/optimapped/optimapped/internal/llm"
)

var errNoProvider = errors.New("no AI provider configured: set OPTIMAPPED_GEMINI_API_KEY or another provider key")

const (
	defaultCacheSize = 32
	defaultMaxTokens = 1024
)

// Result is the outcome of one insight request. Exactly one of Text and
// Err is meaningful.
type Result struct {
	Text      string
	Technique *Technique
	Err       error
}

// Requestor sends insight prompts to a provider. Successful replies are
// memoised per prompt for the life of the process.
type Requestor struct {
	provider  llm.Provider
	cache     *lru.Cache[string, string]
	log       *zap.Logger
	timeout   time.Duration
	maxTokens int
}

type Option func(*Requestor)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(r *Requestor) { r.timeout = d }
}

func WithMaxTokens(n int) Option {
	return func(r *Requestor) { r.maxTokens = n }
}

func New(p llm.Provider, log *zap.Logger, opts ...Option) *Requestor {
	cache, _ := lru.New[string, string](defaultCacheSize)
	r := &Requestor{
		provider:  p,
		cache:     cache,
		log:       log,
		maxTokens: defaultMaxTokens,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Complete sends prompt and parses the reply. Errors are returned in the
// Result so the caller can show them verbatim.
func (r *Requestor) Complete(ctx context.Context, prompt string) Result {
	if text, ok := r.cache.Get(prompt); ok {
		return parsed(text)
	}
	if r.provider == nil {
		return Result{Err: errNoProvider}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeInsight)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.provider.Generate(ctx, llm.UserPrompt(prompt, r.maxTokens))
	if err != nil {
		r.log.Warn("insight request failed", zap.Error(err))
		return Result{Err: err}
	}
	r.cache.Add(prompt, resp.Text)
	return parsed(resp.Text)
}

func parsed(text string) Result {
	prose, t := Parse(text)
	return Result{Text: prose, Technique: t}
}
