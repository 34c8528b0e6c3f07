package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/robot"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/wallet"
)

var (
	ErrNameTaken = errors.New("robot name already registered")
	ErrNotFound  = errors.New("robot not found")
)

// Service manages the robot registry: which robots exist, how to reach
// them, and which wallet receives their session payments. It also resolves
// per-robot payment recipients for the payment gate.
type Service struct {
	repo   robot.Repository
	client robotctl.Client
	logger zerolog.Logger
}

func NewService(repo robot.Repository, client robotctl.Client, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		client: client,
		logger: logger.With().Str("service", "registry").Logger(),
	}
}

// CreateInput defines robot registration input.
type CreateInput struct {
	Name          string
	MotorIP       string
	CameraIP      string
	WalletAddress string
	OwnerWallet   *string
}

// CreateResult distinguishes a fresh registration from a duplicate or a
// reactivated soft-deleted robot.
type CreateResult struct {
	Robot       *robot.Robot
	Existing    bool
	Reactivated bool
}

// Create registers a robot. The motor's /info endpoint is probed to learn
// its mDNS name; a robot re-registered under the same mDNS is returned
// as-is when active, or reactivated with its original wallet when it had
// been soft-deleted.
func (s *Service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if err := robot.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := wallet.Validate(input.WalletAddress); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.IsDeleted() {
		return nil, ErrNameTaken
	}

	var motorMDNS, cameraMDNS *string
	if info, err := s.client.RobotInfo(ctx, input.MotorIP); err == nil && info.MDNSName != "" {
		motorMDNS = &info.MDNSName
	}
	if info, err := s.client.CameraInfo(ctx, input.MotorIP); err == nil && info.MDNSName != "" {
		cameraMDNS = &info.MDNSName
	}

	if motorMDNS != nil {
		known, err := s.repo.GetByMDNS(ctx, *motorMDNS)
		if err != nil {
			return nil, err
		}
		if known != nil {
			if !known.IsDeleted() {
				return &CreateResult{Robot: known, Existing: true}, nil
			}
			known.DeletedAt = nil
			known.MotorIP = input.MotorIP
			known.CameraIP = input.CameraIP
			known.UpdatedAt = time.Now().UTC()
			if err := s.repo.Update(ctx, known); err != nil {
				return nil, err
			}
			s.logger.Info().Str("robot_id", known.RobotID.String()).Str("mdns", *motorMDNS).Msg("robot reactivated")
			return &CreateResult{Robot: known, Reactivated: true}, nil
		}
	}

	now := time.Now().UTC()
	r := &robot.Robot{
		RobotID:       uuid.New(),
		Name:          input.Name,
		MotorIP:       input.MotorIP,
		CameraIP:      input.CameraIP,
		MotorMDNS:     motorMDNS,
		CameraMDNS:    cameraMDNS,
		WalletAddress: wallet.Normalize(input.WalletAddress),
		OwnerWallet:   input.OwnerWallet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create robot: %w", err)
	}
	s.logger.Info().Str("robot_id", r.RobotID.String()).Str("name", r.Name).Msg("robot registered")
	return &CreateResult{Robot: r}, nil
}

func (s *Service) Get(ctx context.Context, robotID uuid.UUID) (*robot.Robot, error) {
	r, err := s.repo.GetByID(ctx, robotID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.IsDeleted() {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) List(ctx context.Context) ([]*robot.Robot, error) {
	return s.repo.List(ctx)
}

// UpdateInput defines robot update input. The receiving wallet is fixed at
// registration and cannot be changed here.
type UpdateInput struct {
	Name        *string
	MotorIP     *string
	CameraIP    *string
	OwnerWallet *string
}

func (s *Service) Update(ctx context.Context, robotID uuid.UUID, input UpdateInput) (*robot.Robot, error) {
	r, err := s.Get(ctx, robotID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := robot.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		r.Name = *input.Name
	}
	if input.MotorIP != nil {
		r.MotorIP = *input.MotorIP
	}
	if input.CameraIP != nil {
		r.CameraIP = *input.CameraIP
	}
	if input.OwnerWallet != nil {
		r.OwnerWallet = input.OwnerWallet
	}
	r.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete soft-deletes a robot; its wallet binding is preserved for
// reactivation.
func (s *Service) Delete(ctx context.Context, robotID uuid.UUID) error {
	deleted, err := s.repo.SoftDelete(ctx, robotID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// PaymentRecipient resolves the wallet that receives payments for the
// given robot host. Satisfies the payment gate's RecipientResolver.
func (s *Service) PaymentRecipient(ctx context.Context, robotHost string) (string, error) {
	r, err := s.repo.GetByHost(ctx, robot.NormalizeHost(robotHost))
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", ErrNotFound
	}
	return r.WalletAddress, nil
}
