// Package advisor requests maintenance advice for a list of tables from a language model.
//
// The Service type is the boundary the rest of the program talks to. It never returns an
// error: any failure of the underlying Client is logged and replaced with Fallback.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalidAdvice is returned when a response does not carry all advice fields
var ErrInvalidAdvice = errors.New("invalid advice payload")

// Advice is free-text maintenance guidance for a set of tables
type Advice struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	RiskAssessment  string   `json:"riskAssessment"`
}

// Validate checks that every field required by the response schema is populated
func (a Advice) Validate() error {
	var missing []string
	if strings.TrimSpace(a.Summary) == "" {
		missing = append(missing, "summary")
	}
	if a.Recommendations == nil {
		missing = append(missing, "recommendations")
	}
	if strings.TrimSpace(a.RiskAssessment) == "" {
		missing = append(missing, "riskAssessment")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAdvice, strings.Join(missing, ", "))
	}
	return nil
}

// Fallback returns the advice shown when the model cannot be reached or answers badly
func Fallback() Advice {
	return Advice{
		Summary: "Maintenance summary unavailable.",
		Recommendations: []string{
			"Perform maintenance during off-peak hours.",
			"Ensure you have a recent backup.",
		},
		RiskAssessment: "VACUUM FULL will lock tables; use with caution in production.",
	}
}

// Client produces advice for raw table names
type Client interface {
	Advise(ctx context.Context, tableNames []string) (Advice, error)
}

// Service wraps a Client and substitutes Fallback on failure
type Service struct {
	client  Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewService creates an advice service. client may be nil, in which case every request
// for a non-empty table list yields Fallback.
func NewService(client Client, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Advise returns advice for the given table names.
// The second result is false when nothing was requested because the list is empty.
func (s *Service) Advise(ctx context.Context, tableNames []string) (Advice, bool) {
	if len(tableNames) == 0 {
		return Advice{}, false
	}

	advice, err := s.call(ctx, tableNames)
	if err == nil {
		err = advice.Validate()
	}
	if err != nil {
		s.logger.Error("advice request failed, using fallback", "tables", len(tableNames), "error", err)
		return Fallback(), true
	}

	s.logger.Debug("advice received", "tables", len(tableNames), "recommendations", len(advice.Recommendations))
	return advice, true
}

func (s *Service) call(ctx context.Context, tableNames []string) (advice Advice, err error) {
	if s.client == nil {
		return Advice{}, errors.New("no advisor configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("advisor panic: %v", r)
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	names := make([]string, len(tableNames))
	copy(names, tableNames)
	return s.client.Advise(ctx, names)
}
