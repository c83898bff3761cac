package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketsense/jobbrief/constants"
)

// Config for the OpenAI-compatible oracle client.
type Config struct {
	APIKey         string  // if empty, falls back to env OPENAI_API_KEY
	BaseURL        string  // default https://api.openai.com/v1
	Model          string  // e.g. "gpt-4o-mini"
	RequestsPerSec float64 // client-side rate limit; <=0 disables it
	Burst          int
}

// Client issues chat-completion calls against one endpoint. The rate limiter
// is an instance field, so each constructed client owns its own pacing state
// and tests can build isolated instances.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
	}

	return &Client{
		cfg: cfg,
		// per-call deadlines come from the request; keep a generous floor here
		http:    &http.Client{Timeout: 2 * time.Minute},
		limiter: limiter,
		log:     logger,
	}
}
