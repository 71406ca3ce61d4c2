package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/habitplan/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.LLMService = (*RateLimited)(nil)

// defaultBackoff applies when a 429 carries no Retry-After header.
const defaultBackoff = 30 * time.Second

// RateLimited throttles Chat calls with a token bucket and backs off after
// a provider reports 429.
type RateLimited struct {
	driven.LLMService

	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimited wraps svc so that at most requestsPerMinute chats are sent.
// A non-positive rate returns svc unchanged.
func NewRateLimited(svc driven.LLMService, requestsPerMinute int) driven.LLMService {
	if svc == nil || requestsPerMinute <= 0 {
		return svc
	}
	return &RateLimited{
		LLMService: svc,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		now:        time.Now,
	}
}

// Chat waits for a token, then delegates.
func (r *RateLimited) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}

	reply, err := r.LLMService.Chat(ctx, messages, opts)
	if se, limited := IsRateLimited(err); limited {
		backoff := se.RetryAfter
		if backoff == 0 {
			backoff = defaultBackoff
		}
		r.mu.Lock()
		r.retryAt = r.now().Add(backoff)
		r.mu.Unlock()
	}
	return reply, err
}

func (r *RateLimited) wait(ctx context.Context) error {
	r.mu.Lock()
	delay := r.retryAt.Sub(r.now())
	r.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}
