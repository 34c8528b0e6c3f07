package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

const (
	walletA = "0xAAA0000000000000000000000000000000000001"
	walletB = "0xBBB0000000000000000000000000000000000002"
	hostOne = "tumbller-1"
	hostTwo = "tumbller-2"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTryAcquireGrantsAndSnapshots(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewLockTable()
	table.now = fixedClock(start)

	sess, err := table.TryAcquire(walletA, hostOne, 10*time.Minute, "0xtx1")
	if err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	if sess.Wallet != "0xaaa0000000000000000000000000000000000001" {
		t.Errorf("wallet not normalized: %q", sess.Wallet)
	}
	if sess.RobotHost != hostOne {
		t.Errorf("robot host = %q, want %q", sess.RobotHost, hostOne)
	}
	if !sess.ExpiresAt.Equal(start.Add(10 * time.Minute)) {
		t.Errorf("expires at %v, want %v", sess.ExpiresAt, start.Add(10*time.Minute))
	}
	if sess.PaymentTx != "0xtx1" {
		t.Errorf("payment tx = %q", sess.PaymentTx)
	}

	// Mutating the returned snapshot must not touch table state.
	sess.RobotHost = "mangled"
	if got := table.Lookup(walletA); got == nil || got.RobotHost != hostOne {
		t.Fatalf("table state leaked through snapshot: %+v", got)
	}
}

func TestTryAcquireRobotConflict(t *testing.T) {
	table := NewLockTable()
	if _, err := table.TryAcquire(walletA, hostOne, time.Minute, ""); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	_, err := table.TryAcquire(walletB, hostOne, time.Minute, "")
	var locked *RobotLockedError
	if !errors.As(err, &locked) {
		t.Fatalf("want RobotLockedError, got %v", err)
	}
	if locked.RobotHost != hostOne {
		t.Errorf("conflict host = %q", locked.RobotHost)
	}
	if !IsConflict(err) {
		t.Error("IsConflict() = false for RobotLockedError")
	}
}

func TestTryAcquireWalletBusy(t *testing.T) {
	table := NewLockTable()
	if _, err := table.TryAcquire(walletA, hostOne, time.Minute, ""); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// Same wallet, different robot: refused while the first session lives.
	_, err := table.TryAcquire(walletA, hostTwo, time.Minute, "")
	var busy *WalletBusyError
	if !errors.As(err, &busy) {
		t.Fatalf("want WalletBusyError, got %v", err)
	}
	if busy.RobotHost != hostOne {
		t.Errorf("busy error reports %q, want currently held %q", busy.RobotHost, hostOne)
	}
	if !IsConflict(err) {
		t.Error("IsConflict() = false for WalletBusyError")
	}
}

func TestTryAcquireRenewsSameRobot(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewLockTable()
	table.now = fixedClock(start)

	if _, err := table.TryAcquire(walletA, hostOne, 10*time.Minute, "0xfirst"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	table.now = fixedClock(start.Add(7 * time.Minute))
	renewed, err := table.TryAcquire(walletA, hostOne, 10*time.Minute, "0xsecond")
	if err != nil {
		t.Fatalf("renewal: %v", err)
	}
	if !renewed.ExpiresAt.Equal(start.Add(17 * time.Minute)) {
		t.Errorf("renewal window = %v, want fresh 10m from renewal time", renewed.ExpiresAt)
	}
	if renewed.PaymentTx != "0xsecond" {
		t.Errorf("renewal kept old payment tx: %q", renewed.PaymentTx)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d after renewal, want 1", table.Len())
	}
}

func TestExpiredEntryIsReacquirable(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewLockTable()
	table.now = fixedClock(start)

	if _, err := table.TryAcquire(walletA, hostOne, 5*time.Minute, ""); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// Exactly at expiry the session is gone; no sweep has run.
	table.now = fixedClock(start.Add(5 * time.Minute))
	if got := table.Lookup(walletA); got != nil {
		t.Fatalf("Lookup() = %+v at expiry instant, want nil", got)
	}
	if _, held := table.LookupRobot(hostOne); held {
		t.Fatal("LookupRobot() still reports a holder at expiry instant")
	}

	sess, err := table.TryAcquire(walletB, hostOne, 5*time.Minute, "")
	if err != nil {
		t.Fatalf("acquire over expired entry: %v", err)
	}
	if sess.Wallet != "0xbbb0000000000000000000000000000000000002" {
		t.Errorf("new holder = %q", sess.Wallet)
	}
}

func TestLookupJustBeforeExpiry(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewLockTable()
	table.now = fixedClock(start)

	if _, err := table.TryAcquire(walletA, hostOne, 5*time.Minute, ""); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	table.now = fixedClock(start.Add(5*time.Minute - time.Second))
	sess := table.Lookup(walletA)
	if sess == nil {
		t.Fatal("Lookup() = nil one second before expiry")
	}
	if got := sess.RemainingSeconds(table.now()); got != 1 {
		t.Errorf("RemainingSeconds() = %d, want 1", got)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	table := NewLockTable()
	if _, err := table.TryAcquire(walletA, hostOne, time.Minute, ""); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !table.Release(walletA) {
		t.Fatal("first Release() = false")
	}
	if table.Release(walletA) {
		t.Fatal("second Release() = true, want idempotent false")
	}
	if table.Release(walletB) {
		t.Fatal("Release() of never-held wallet = true")
	}
	if _, held := table.LookupRobot(hostOne); held {
		t.Fatal("robot still held after release")
	}
}

func TestSweepExpiredBoundary(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewLockTable()
	table.now = fixedClock(start)

	wallets := []string{walletA, walletB, "0xCCC0000000000000000000000000000000000003"}
	for i, w := range wallets {
		host := fmt.Sprintf("tumbller-%d", i+1)
		if _, err := table.TryAcquire(w, host, time.Duration(i+1)*time.Minute, ""); err != nil {
			t.Fatalf("acquire %s: %v", host, err)
		}
	}

	// expiresAt <= now is expired: at +2m the 1m and 2m sessions go, the
	// 3m session stays.
	removed := table.SweepExpired(start.Add(2 * time.Minute))
	if len(removed) != 2 {
		t.Fatalf("SweepExpired() removed %d, want 2", len(removed))
	}
	if table.Len() != 1 {
		t.Fatalf("Len() = %d after sweep, want 1", table.Len())
	}
	if _, held := table.LookupRobot("tumbller-3"); !held {
		t.Fatal("surviving session was swept")
	}

	if again := table.SweepExpired(start.Add(2 * time.Minute)); len(again) != 0 {
		t.Fatalf("second sweep removed %d, want 0", len(again))
	}
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	table := NewLockTable()
	const contenders = 32

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := fmt.Sprintf("0x%040d", i)
			_, errs[i] = table.TryAcquire(w, hostOne, time.Minute, "")
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if !IsConflict(err) {
			t.Errorf("contender %d got non-conflict error: %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("%d contenders won the same robot, want exactly 1", winners)
	}
	holder, held := table.LookupRobot(hostOne)
	if !held || holder == "" {
		t.Fatal("no holder installed after the race")
	}
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	table := NewLockTable()
	if _, err := table.TryAcquire(walletA, "Tumbller-1", time.Minute, ""); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	// Same wallet and robot in different casing is the same lock.
	lowered := "0xaaa0000000000000000000000000000000000001"
	if got := table.Lookup(lowered); got == nil {
		t.Fatal("Lookup() with lowercased wallet = nil")
	}
	if _, err := table.TryAcquire(walletB, "TUMBLLER-1", time.Minute, ""); !IsConflict(err) {
		t.Fatalf("differently cased host dodged the lock: %v", err)
	}
}
