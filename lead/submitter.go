package lead

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/leadguard/auth"
	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/resilience"
)

// DefaultTimeout bounds a submission when Config.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// Config configures the Submitter.
type Config struct {
	// Endpoint is the lead API URL.
	Endpoint string

	// Timeout bounds the submission call.
	// Default: 5 seconds
	Timeout time.Duration
}

// Submitter posts lead payloads to the lead API.
type Submitter struct {
	cfg     Config
	fetcher fetch.Fetcher
	logger  observe.Logger
}

// NewSubmitter creates a Submitter. A nil fetcher uses a plain HTTPFetcher.
func NewSubmitter(cfg Config, fetcher fetch.Fetcher, logger observe.Logger) *Submitter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if fetcher == nil {
		fetcher = fetch.NewHTTPFetcher(nil)
	}
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Submitter{
		cfg:     cfg,
		fetcher: fetch.Guarded(fetcher, resilience.NewExecutor(resilience.WithTimeout(cfg.Timeout))),
		logger:  logger.WithCall(observe.CallMeta{Service: "leadapi", Operation: "submit"}),
	}
}

type created struct {
	ID      string  `json:"id"`
	Success bool    `json:"success"`
	Errors  []Error `json:"errors"`
}

// Submit posts p with the bearer credential. Only 201 Created counts as
// accepted; any other status is decoded as the API's error list.
func (s *Submitter) Submit(ctx context.Context, p Payload, credential string) Result {
	if credential == "" {
		return MissingCredential()
	}

	body, err := p.Encode()
	if err != nil {
		s.logger.Error(ctx, "encode lead payload", observe.Field{Key: "error", Value: err.Error()})
		return ServerError()
	}

	req := fetch.NewPostJSON("leadapi", "submit", s.cfg.Endpoint, body)
	req.ExpectStatus = http.StatusCreated
	auth.SetBearer(req.Header, credential)

	resp, err := s.fetcher.Fetch(ctx, req)
	var se *fetch.StatusError
	switch {
	case errors.As(err, &se):
		return s.rejected(ctx, se)
	case err != nil:
		s.logger.Error(ctx, "lead submission failed", observe.Field{Key: "error", Value: err.Error()})
		return ServerError()
	}

	var c created
	if err := json.Unmarshal(resp, &c); err != nil {
		s.logger.Error(ctx, "decode lead response", observe.Field{Key: "error", Value: err.Error()})
		return ServerError()
	}
	return Result{
		Success:    c.Success,
		Errors:     c.Errors,
		StatusCode: http.StatusOK,
		ID:         c.ID,
	}
}

// rejected relays the API's error list with its status.
func (s *Submitter) rejected(ctx context.Context, se *fetch.StatusError) Result {
	var list []Error
	if err := json.Unmarshal(se.Body, &list); err != nil || len(list) == 0 {
		s.logger.Warn(ctx, "lead api returned an unreadable error list",
			observe.Field{Key: "status", Value: se.Code},
		)
		return Failure(se.Code, CodeUpstreamError, http.StatusText(se.Code))
	}
	for i := range list {
		if list[i].Fields == nil {
			list[i].Fields = []string{}
		}
	}
	s.logger.Info(ctx, "lead rejected",
		observe.Field{Key: "status", Value: se.Code},
		observe.Field{Key: "error_code", Value: list[0].ErrorCode},
	)
	return Result{Success: false, Errors: list, StatusCode: se.Code}
}
