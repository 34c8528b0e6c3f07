package session

import "time"

// Session is one grant of exclusive robot control, bound to a wallet for a
// fixed window. Activity is always derived from ExpiresAt against the
// current clock; nothing here is a stored status flag.
type Session struct {
	Wallet    string    `json:"wallet"`
	RobotHost string    `json:"robot_host"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	PaymentTx string    `json:"payment_tx,omitempty"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// RemainingSeconds reports whole seconds left in the session, floored at 0.
func (s *Session) RemainingSeconds(now time.Time) int {
	remaining := s.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds())
}
