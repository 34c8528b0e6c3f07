package robot

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for registered robots. Soft-deleted robots
// stay in storage so a re-registered robot keeps its wallet.
type Repository interface {
	Create(ctx context.Context, r *Robot) error
	GetByID(ctx context.Context, robotID uuid.UUID) (*Robot, error)
	GetByName(ctx context.Context, name string) (*Robot, error)
	// GetByHost resolves a robot by mDNS name or motor IP, active only.
	GetByHost(ctx context.Context, host string) (*Robot, error)
	// GetByMDNS includes soft-deleted robots, for reactivation.
	GetByMDNS(ctx context.Context, mdns string) (*Robot, error)
	List(ctx context.Context) ([]*Robot, error)
	Update(ctx context.Context, r *Robot) error
	SoftDelete(ctx context.Context, robotID uuid.UUID) (bool, error)
}
