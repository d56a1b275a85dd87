package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"github.com/sibyl-oracle/sibyl-contract/internal/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTokens   = 200
	temperature = 0.7
)

const prompt = `You are Sibyl, an AI oracle that makes crypto market predictions.

Generate ONE specific, verifiable prediction about crypto markets for the next 24-72 hours.

Format your response EXACTLY like this:
PREDICTION: [your prediction statement, at most 280 characters]
CONFIDENCE: [number 50-90]
HOURS: [24, 48, or 72]

Example:
PREDICTION: NEO will break above $20 before dropping back to $18
CONFIDENCE: 68
HOURS: 48

Make your prediction specific enough to verify. Focus on BTC, ETH, NEO, SOL or other major tokens.`

// Generator asks a chat completion model for predictions.
type Generator struct {
	log     *zap.Logger
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	retries uint64

	newBackOff func() backoff.BackOff
	pick       func(n int) int
}

// NewGenerator creates a generator talking to the OpenAI-compatible API
// described by cfg. With empty API key the generator always returns
// fallback predictions.
func NewGenerator(log *zap.Logger, cfg config.LLM) *Generator {
	g := &Generator{
		log:        log,
		model:      cfg.Model,
		limiter:    rate.NewLimiter(rate.Every(cfg.RateInterval), 1),
		retries:    cfg.Retries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}

	if cfg.APIKey != "" {
		c := openai.DefaultConfig(cfg.APIKey)
		c.BaseURL = cfg.BaseURL
		c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		g.client = openai.NewClientWithConfig(c)
	}

	return g
}

// Generate returns a prediction produced by the model. If the model is not
// configured, keeps failing or replies in unexpected format, a canned
// prediction is returned instead. Only context errors are returned.
func (g *Generator) Generate(ctx context.Context) (Prediction, error) {
	if g.client == nil {
		g.log.Warn("API key is not set, using fallback prediction")
		return g.fallback(), nil
	}

	p, err := g.ask(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Prediction{}, ctxErr
		}

		g.log.Warn("prediction generation failed, using fallback prediction", zap.Error(err))
		return g.fallback(), nil
	}

	return p, nil
}

func (g *Generator) ask(ctx context.Context) (Prediction, error) {
	var (
		p        Prediction
		attempts int
	)

	op := func() error {
		attempts++

		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			g.log.Debug("chat completion failed", zap.Int("attempt", attempts), zap.Error(err))
			return err
		}

		if len(resp.Choices) == 0 {
			return backoff.Permanent(errors.New("empty choices"))
		}

		p, err = ParseReply(resp.Choices[0].Message.Content)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parse reply: %w", err))
		}
		return nil
	}

	start := time.Now()
	b := backoff.WithContext(backoff.WithMaxRetries(g.newBackOff(), g.retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return Prediction{}, err
	}

	g.log.Debug("prediction generated",
		zap.Int("attempts", attempts), zap.Duration("took", time.Since(start)))

	return p, nil
}

func (g *Generator) fallback() Prediction {
	if g.pick != nil {
		return fallbackAt(g.pick(len(fallbacks)))
	}
	return Fallback()
}

// isRetryable reports whether the request may succeed if repeated: transport
// failures, rate limiting and server side errors.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
