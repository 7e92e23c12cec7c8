package generation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/resilience"
)

// HTTPConfig configures the remote generator
type HTTPConfig struct {
	Endpoint        string
	APIKey          string
	Timeout         time.Duration
	RetryMax        int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	RequestsPerSec  float64
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type replyRequest struct {
	Topic   string  `json:"topic"`
	Persona Persona `json:"persona"`
}

type replyResponse struct {
	Text string `json:"text"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	ImageRef string `json:"image_ref"`
}

type apiError struct {
	Error string `json:"error"`
}

// HTTPGenerator calls a remote generation service
type HTTPGenerator struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	log     *logging.Logger
}

// NewHTTPGenerator creates a generator for cfg.Endpoint
func NewHTTPGenerator(cfg HTTPConfig, logger *logging.Logger) (*HTTPGenerator, error) {
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid generation endpoint %q: %w", cfg.Endpoint, err)
	}
	log := logger.Named("generation")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = orDefault(cfg.RetryWaitMin, 250*time.Millisecond)
	retryClient.RetryWaitMax = orDefault(cfg.RetryWaitMax, 2*time.Second)
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(orDefault(cfg.Timeout, 20*time.Second)).
		SetHeader("User-Agent", "PhoneSim-Generation/1.0").
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSec > 0 {
		burst := int(cfg.RequestsPerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := resilience.New("generation", resilience.Settings{
		MaxRequests: 1,
		Timeout:     orDefault(cfg.BreakerCooldown, 30*time.Second),
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("Generation breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &HTTPGenerator{
		client:  client,
		limiter: limiter,
		breaker: breaker,
		log:     log,
	}, nil
}

// GenerateReply asks the service for a reply to topic
func (g *HTTPGenerator) GenerateReply(ctx context.Context, topic string, persona Persona) (string, error) {
	var out replyResponse
	if err := g.post(ctx, "/v1/reply", replyRequest{Topic: topic, Persona: persona}, &out); err != nil {
		return "", err
	}

	text := CleanText(out.Text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// GenerateImage asks the service for an image reference
func (g *HTTPGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var out imageResponse
	if err := g.post(ctx, "/v1/image", imageRequest{Prompt: prompt}, &out); err != nil {
		return "", err
	}

	ref := strings.TrimSpace(out.ImageRef)
	if ref == "" {
		return "", ErrEmptyReply
	}
	if _, err := url.Parse(ref); err != nil {
		return "", fmt.Errorf("generation: malformed image ref: %w", err)
	}
	return ref, nil
}

// BreakerState exposes the circuit state for health reporting
func (g *HTTPGenerator) BreakerState() resilience.State {
	return g.breaker.State()
}

func (g *HTTPGenerator) post(ctx context.Context, path string, body, result interface{}) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("generation rate limit: %w", err)
	}

	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		var apiErr apiError
		resp, err := g.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(result).
			SetError(&apiErr).
			Post(path)
		if err != nil {
			return fmt.Errorf("generation request %s: %w", path, err)
		}
		if resp.IsError() {
			msg := apiErr.Error
			if msg == "" {
				msg = resp.Status()
			}
			return fmt.Errorf("generation %s returned %d: %s", path, resp.StatusCode(), msg)
		}
		return nil
	})
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
