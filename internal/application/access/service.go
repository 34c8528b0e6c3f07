package access

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/payment"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/session"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/wallet"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/metrics"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/sse"
)

// Outcome tags the result of a purchase attempt. All five are expected
// branches the transport layer maps to distinct status codes; none of them
// is a fault.
type Outcome string

const (
	OutcomeGranted         Outcome = "GRANTED"
	OutcomePaymentRequired Outcome = "PAYMENT_REQUIRED"
	OutcomeRejected        Outcome = "REJECTED"
	OutcomeConflict        Outcome = "CONFLICT"
	OutcomeOffline         Outcome = "OFFLINE"
)

// PurchaseResult is the tagged outcome of one purchase attempt.
type PurchaseResult struct {
	Outcome      Outcome
	Session      *session.Session
	Requirements *payment.Requirements
	Reason       string
}

// SessionStatus is the read-only view of a wallet's session.
type SessionStatus struct {
	Active           bool       `json:"active"`
	RobotHost        string     `json:"robot_host,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds,omitempty"`
}

// Service owns the session lifecycle: purchase, status, release, and the
// background expiry sweep. It is the only writer to the lock table besides
// the sweeper tick it runs itself.
type Service struct {
	locks    *session.LockTable
	gate     *payment.Gate
	robots   *robotctl.Service
	hub      *sse.Hub
	metrics  *metrics.Metrics
	duration time.Duration
	logger   zerolog.Logger
}

func NewService(
	locks *session.LockTable,
	gate *payment.Gate,
	robots *robotctl.Service,
	hub *sse.Hub,
	m *metrics.Metrics,
	duration time.Duration,
	logger zerolog.Logger,
) *Service {
	return &Service{
		locks:    locks,
		gate:     gate,
		robots:   robots,
		hub:      hub,
		metrics:  m,
		duration: duration,
		logger:   logger.With().Str("service", "access").Logger(),
	}
}

func (s *Service) SessionDuration() time.Duration { return s.duration }

// Purchase runs payment-then-grant for one wallet/robot pair. Payment
// verification happens strictly before the atomic acquire, so a slow or
// abandoned settlement call never holds the lock table and never leaves
// partial lock state.
func (s *Service) Purchase(ctx context.Context, walletAddr, robotHost string, proof *payment.Proof) (*PurchaseResult, error) {
	if err := wallet.Validate(walletAddr); err != nil {
		return nil, err
	}

	if !s.robots.MotorOnline(ctx, robotHost) {
		s.count(OutcomeOffline)
		return &PurchaseResult{Outcome: OutcomeOffline, Reason: "robot is offline"}, nil
	}

	decision, err := s.gate.Evaluate(ctx, walletAddr, robotHost, proof)
	if err != nil {
		return nil, err
	}

	switch decision.Kind {
	case payment.DecisionRequired:
		s.count(OutcomePaymentRequired)
		return &PurchaseResult{Outcome: OutcomePaymentRequired, Requirements: decision.Requirements}, nil
	case payment.DecisionRejected:
		s.count(OutcomeRejected)
		return &PurchaseResult{Outcome: OutcomeRejected, Reason: decision.Reason}, nil
	}

	sess, err := s.locks.TryAcquire(walletAddr, robotHost, s.duration, decision.TxRef)
	if err != nil {
		if !session.IsConflict(err) {
			return nil, err
		}
		if decision.TxRef != "" {
			// Settled payment lost the grant race. There is no refund path
			// here; log distinctly for manual reconciliation.
			s.logger.Warn().
				Str("wallet", wallet.Mask(walletAddr)).
				Str("robot", robotHost).
				Str("tx", decision.TxRef).
				Msg("payment settled but grant refused, needs reconciliation")
		}
		s.count(OutcomeConflict)
		return &PurchaseResult{Outcome: OutcomeConflict, Reason: err.Error()}, nil
	}

	s.count(OutcomeGranted)
	s.logger.Info().
		Str("wallet", wallet.Mask(sess.Wallet)).
		Str("robot", sess.RobotHost).
		Time("expires_at", sess.ExpiresAt).
		Msg("session granted")
	s.broadcast("session_granted", sess)

	return &PurchaseResult{Outcome: OutcomeGranted, Session: sess}, nil
}

// Status reports the wallet's session, derived live from expiry timestamps.
func (s *Service) Status(walletAddr string) *SessionStatus {
	sess := s.locks.Lookup(walletAddr)
	if sess == nil {
		return &SessionStatus{Active: false}
	}
	now := time.Now().UTC()
	expires := sess.ExpiresAt
	return &SessionStatus{
		Active:           true,
		RobotHost:        sess.RobotHost,
		ExpiresAt:        &expires,
		RemainingSeconds: sess.RemainingSeconds(now),
	}
}

// Release ends the wallet's session immediately. Idempotent.
func (s *Service) Release(walletAddr string) bool {
	sess := s.locks.Lookup(walletAddr)
	released := s.locks.Release(walletAddr)
	if released && sess != nil {
		s.logger.Info().Str("wallet", wallet.Mask(sess.Wallet)).Str("robot", sess.RobotHost).Msg("session released")
		s.broadcast("session_released", sess)
	}
	return released
}

// Run sweeps expired sessions on a fixed interval until ctx is cancelled.
// The sweep goes through the same synchronized lock table entry point as
// request handlers; it bounds table growth but ownership checks never
// depend on it having run.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			removed := s.locks.SweepExpired(time.Now().UTC())
			if len(removed) == 0 {
				continue
			}
			s.metrics.SessionsSweptTotal.Add(float64(len(removed)))
			s.logger.Debug().Int("count", len(removed)).Msg("swept expired sessions")
			for _, sess := range removed {
				s.broadcast("session_expired", sess)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) count(outcome Outcome) {
	s.metrics.PurchasesTotal.WithLabelValues(string(outcome)).Inc()
}

func (s *Service) broadcast(event string, sess *session.Session) {
	s.hub.Broadcast(&sse.Message{
		Event: event,
		Data: map[string]any{
			"wallet":     wallet.Mask(sess.Wallet),
			"robot_host": sess.RobotHost,
			"expires_at": sess.ExpiresAt,
		},
	})
}
