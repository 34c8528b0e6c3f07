package robotctl

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/session"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/wallet"
)

var (
	ErrNoSession      = errors.New("no active session for wallet")
	ErrUnknownCommand = errors.New("unknown motor command")
	ErrRobotOffline   = errors.New("robot unreachable")
)

var motorCommands = map[string]struct{}{
	"forward": {},
	"back":    {},
	"left":    {},
	"right":   {},
	"stop":    {},
}

// StatusReport combines robot reachability with lock state. Available is
// true only when both sub-interfaces are online and no active lock exists.
type StatusReport struct {
	RobotHost    string  `json:"robot_host"`
	MotorOnline  bool    `json:"motor_online"`
	MotorIP      *string `json:"motor_ip,omitempty"`
	MotorMDNS    *string `json:"motor_mdns,omitempty"`
	CameraOnline bool    `json:"camera_online"`
	CameraIP     *string `json:"camera_ip,omitempty"`
	CameraMDNS   *string `json:"camera_mdns,omitempty"`
	Available    bool    `json:"available"`
	LockedBy     *string `json:"locked_by,omitempty"`
}

// Service proxies motor and camera traffic to the robot bound to a wallet's
// session, and answers public status queries. It never mutates lock state;
// ownership is re-validated against the lock table on every call.
type Service struct {
	client Client
	locks  *session.LockTable
	logger zerolog.Logger
}

func NewService(client Client, locks *session.LockTable, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		locks:  locks,
		logger: logger.With().Str("service", "robotctl").Logger(),
	}
}

// Status probes the robot's motor and camera discovery endpoints. An
// unreachable endpoint is reported offline, never as an error.
func (s *Service) Status(ctx context.Context, robotHost string) *StatusReport {
	report := &StatusReport{RobotHost: robotHost}

	if info, err := s.client.RobotInfo(ctx, robotHost); err == nil {
		report.MotorOnline = true
		report.MotorIP = &info.IP
		report.MotorMDNS = &info.MDNSName
	}
	if info, err := s.client.CameraInfo(ctx, robotHost); err == nil {
		report.CameraOnline = true
		report.CameraIP = &info.IP
		report.CameraMDNS = &info.MDNSName
	}

	if holder, ok := s.locks.LookupRobot(robotHost); ok {
		masked := wallet.Mask(holder)
		report.LockedBy = &masked
	}
	report.Available = report.MotorOnline && report.CameraOnline && report.LockedBy == nil
	return report
}

// MotorOnline reports whether the robot's motor controller answers /info.
func (s *Service) MotorOnline(ctx context.Context, robotHost string) bool {
	_, err := s.client.RobotInfo(ctx, robotHost)
	return err == nil
}

// Command sends a motor command to the robot bound to the wallet's session.
// Returns the robot host the command went to.
func (s *Service) Command(ctx context.Context, walletAddr, command string) (string, error) {
	if _, ok := motorCommands[command]; !ok {
		return "", ErrUnknownCommand
	}
	sess := s.locks.Lookup(walletAddr)
	if sess == nil {
		return "", ErrNoSession
	}
	if err := s.client.MotorCommand(ctx, sess.RobotHost, command); err != nil {
		s.logger.Warn().Str("robot", sess.RobotHost).Str("command", command).Err(err).Msg("motor command failed")
		return sess.RobotHost, ErrRobotOffline
	}
	return sess.RobotHost, nil
}

// Frame fetches one camera frame from the wallet's bound robot.
func (s *Service) Frame(ctx context.Context, walletAddr string) ([]byte, error) {
	sess := s.locks.Lookup(walletAddr)
	if sess == nil {
		return nil, ErrNoSession
	}
	frame, err := s.client.CameraFrame(ctx, sess.RobotHost)
	if err != nil {
		return nil, ErrRobotOffline
	}
	return frame, nil
}
