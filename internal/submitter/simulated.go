package submitter

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go-advisory-contact/internal/domain"
)

// Defaults of the simulated endpoint.
const (
	DefaultDelay       = 2 * time.Second
	DefaultFailureRate = 0.05
)

// ErrSimulated is the failure produced by the simulated endpoint.
var ErrSimulated = errors.New("simulated API error")

// Simulated stands in for the real endpoint: it waits Delay and then fails
// with probability FailureRate, otherwise echoing the submission back.
type Simulated struct {
	Delay       time.Duration
	FailureRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

func NewSimulated(delay time.Duration, failureRate float64) *Simulated {
	return NewSimulatedWithSource(delay, failureRate, rand.NewSource(time.Now().UnixNano()))
}

// NewSimulatedWithSource makes the failure draw deterministic.
func NewSimulatedWithSource(delay time.Duration, failureRate float64, src rand.Source) *Simulated {
	return &Simulated{Delay: delay, FailureRate: failureRate, rand: rand.New(src)}
}

func (s *Simulated) Submit(ctx context.Context, submission domain.ContactSubmission) (domain.ContactSubmission, error) {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.ContactSubmission{}, ctx.Err()
	case <-timer.C:
	}

	s.mu.Lock()
	draw := s.rand.Float64()
	s.mu.Unlock()

	if draw < s.FailureRate {
		return domain.ContactSubmission{}, errors.Join(domain.ErrSubmissionFailed, ErrSimulated)
	}
	return submission, nil
}
