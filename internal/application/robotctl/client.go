package robotctl

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_client.go -package=mocks . Client

import "context"

// Info is what a robot sub-interface reports from its /info endpoint.
type Info struct {
	MDNSName string `json:"mdns_name"`
	IP       string `json:"ip"`
}

// Client is the transport to a physical robot's motor and camera
// controllers. Implementations resolve robotHost (mDNS name or IP) to the
// right endpoints.
type Client interface {
	RobotInfo(ctx context.Context, robotHost string) (*Info, error)
	CameraInfo(ctx context.Context, robotHost string) (*Info, error)
	MotorCommand(ctx context.Context, robotHost, command string) error
	CameraFrame(ctx context.Context, robotHost string) ([]byte, error)
}
