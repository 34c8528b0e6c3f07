package robot

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Robot is a registered robot: where to reach its motor and camera, and the
// wallet that receives session payments for it.
type Robot struct {
	RobotID       uuid.UUID  `json:"robot_id"`
	Name          string     `json:"name"`
	MotorIP       string     `json:"motor_ip"`
	CameraIP      string     `json:"camera_ip"`
	MotorMDNS     *string    `json:"motor_mdns,omitempty"`
	CameraMDNS    *string    `json:"camera_mdns,omitempty"`
	WalletAddress string     `json:"wallet_address"`
	OwnerWallet   *string    `json:"owner_wallet,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

func (r *Robot) IsDeleted() bool {
	return r.DeletedAt != nil
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,98}[a-z0-9]$`)

// ValidateName checks the robot name (doubles as an mDNS label prefix).
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid robot name %q: lowercase letters, digits and hyphens, 3-100 chars", name)
	}
	return nil
}

// NormalizeHost lowercases a robot host (mDNS name or IP) for use as a key.
func NormalizeHost(host string) string {
	return strings.ToLower(strings.TrimSpace(host))
}
