package session

import (
	"strings"
	"sync"
	"time"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/wallet"
)

// LockTable is the sole authority on which wallet controls which robot and
// until when. Two indices live behind a single mutex: robot host -> session
// and wallet -> session. The inverse wallet index enforces one-robot-per-
// wallet; the cross-index invariant is why both maps share one lock instead
// of using per-entry locking.
//
// All reads compare expiry against the current clock rather than trusting
// table membership, so the background sweep is never load-bearing for
// correctness.
type LockTable struct {
	mu       sync.Mutex
	byRobot  map[string]*Session
	byWallet map[string]*Session
	now      func() time.Time
}

func NewLockTable() *LockTable {
	return &LockTable{
		byRobot:  make(map[string]*Session),
		byWallet: make(map[string]*Session),
		now:      time.Now,
	}
}

// TryAcquire installs a lock for wallet on robotHost for the given duration.
// The availability check of both indices and the install of both entries are
// one atomic step: under concurrent calls for the same robot exactly one
// caller wins, everyone else gets a conflict error with the winner's lock
// fully installed.
//
// A wallet re-acquiring the robot it already holds renews it (fresh window)
// through this same path. Entries that are expired at call time are treated
// as absent and removed.
func (t *LockTable) TryAcquire(walletAddr, robotHost string, duration time.Duration, paymentTx string) (*Session, error) {
	w := wallet.Normalize(walletAddr)
	host := strings.ToLower(strings.TrimSpace(robotHost))
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()

	if held := t.byRobot[host]; held != nil {
		if held.IsExpired(now) {
			t.removeLocked(held)
		} else if held.Wallet != w {
			return nil, &RobotLockedError{RobotHost: host, Holder: held.Wallet}
		}
	}
	if held := t.byWallet[w]; held != nil {
		if held.IsExpired(now) {
			t.removeLocked(held)
		} else if held.RobotHost != host {
			return nil, &WalletBusyError{Wallet: w, RobotHost: held.RobotHost}
		} else {
			// Renewal of the wallet's own robot: drop the old entry and
			// fall through to install a fresh one.
			t.removeLocked(held)
		}
	}

	sess := &Session{
		Wallet:    w,
		RobotHost: host,
		IssuedAt:  now,
		ExpiresAt: now.Add(duration),
		PaymentTx: paymentTx,
	}
	t.byRobot[host] = sess
	t.byWallet[w] = sess

	out := *sess
	return &out, nil
}

// Release drops the wallet's lock if present. Idempotent; reports whether an
// entry was removed.
func (t *LockTable) Release(walletAddr string) bool {
	w := wallet.Normalize(walletAddr)
	t.mu.Lock()
	defer t.mu.Unlock()
	sess := t.byWallet[w]
	if sess == nil {
		return false
	}
	t.removeLocked(sess)
	return true
}

// Lookup returns a snapshot of the wallet's session, or nil when the wallet
// holds nothing or its entry has expired (even if not yet swept).
func (t *LockTable) Lookup(walletAddr string) *Session {
	w := wallet.Normalize(walletAddr)
	t.mu.Lock()
	defer t.mu.Unlock()
	sess := t.byWallet[w]
	if sess == nil || sess.IsExpired(t.now().UTC()) {
		return nil
	}
	out := *sess
	return &out
}

// LookupRobot returns the wallet currently holding robotHost, if any.
func (t *LockTable) LookupRobot(robotHost string) (string, bool) {
	host := strings.ToLower(strings.TrimSpace(robotHost))
	t.mu.Lock()
	defer t.mu.Unlock()
	sess := t.byRobot[host]
	if sess == nil || sess.IsExpired(t.now().UTC()) {
		return "", false
	}
	return sess.Wallet, true
}

// SweepExpired removes every entry with expiresAt <= now from both indices
// and returns the removed sessions.
func (t *LockTable) SweepExpired(now time.Time) []*Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed []*Session
	for _, sess := range t.byWallet {
		if sess.IsExpired(now) {
			t.removeLocked(sess)
			out := *sess
			removed = append(removed, &out)
		}
	}
	return removed
}

// Len reports the number of lock entries, expired or not.
func (t *LockTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byWallet)
}

// removeLocked deletes a session from both indices. Callers hold t.mu. The
// guards keep a stale pointer from evicting a newer entry for the same key.
func (t *LockTable) removeLocked(sess *Session) {
	if cur := t.byRobot[sess.RobotHost]; cur == sess {
		delete(t.byRobot, sess.RobotHost)
	}
	if cur := t.byWallet[sess.Wallet]; cur == sess {
		delete(t.byWallet, sess.Wallet)
	}
}
