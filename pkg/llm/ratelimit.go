package llm

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// RateLimited paces outbound calls to rpm requests per minute. A non-positive
// rpm returns next unchanged.
func RateLimited(next Generator, rpm int) Generator {
	if rpm <= 0 {
		return next
	}
	burst := rpm / 60
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
	}
}

func (r *rateLimited) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Generate(ctx, req)
}
