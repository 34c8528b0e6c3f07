package session

import (
	"errors"
	"fmt"
)

// RobotLockedError reports that the requested robot is held by another wallet.
type RobotLockedError struct {
	RobotHost string
	Holder    string
}

func (e *RobotLockedError) Error() string {
	return fmt.Sprintf("robot %q is locked by another wallet", e.RobotHost)
}

// WalletBusyError reports that the wallet already holds a different robot.
type WalletBusyError struct {
	Wallet    string
	RobotHost string
}

func (e *WalletBusyError) Error() string {
	return fmt.Sprintf("wallet already holds robot %q", e.RobotHost)
}

// IsConflict reports whether err is one of the expected acquire conflicts.
func IsConflict(err error) bool {
	var locked *RobotLockedError
	var busy *WalletBusyError
	return errors.As(err, &locked) || errors.As(err, &busy)
}
