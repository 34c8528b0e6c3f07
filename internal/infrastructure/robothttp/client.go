package robothttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
)

// Client talks HTTP to a robot's motor and camera controllers.
//
// Robots are addressed by mDNS name or raw IP:
//   - mDNS: "finland-tumbller-01" -> http://finland-tumbller-01.local,
//     camera at http://finland-tumbller-01-cam.local
//   - IP: motor and camera share the device, same base URL
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "robothttp").Logger(),
	}
}

func (c *Client) RobotInfo(ctx context.Context, robotHost string) (*robotctl.Info, error) {
	return c.fetchInfo(ctx, robotURL(robotHost))
}

func (c *Client) CameraInfo(ctx context.Context, robotHost string) (*robotctl.Info, error) {
	return c.fetchInfo(ctx, cameraURL(robotHost))
}

func (c *Client) MotorCommand(ctx context.Context, robotHost, command string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotURL(robotHost)+"/motor/"+command, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("motor command %q: robot returned %d", command, resp.StatusCode)
	}
	return nil
}

func (c *Client) CameraFrame(ctx context.Context, robotHost string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cameraURL(robotHost)+"/getImage", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera frame: robot returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) fetchInfo(ctx context.Context, baseURL string) (*robotctl.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/info", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("info: robot returned %d", resp.StatusCode)
	}
	var info robotctl.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("info: decode: %w", err)
	}
	return &info, nil
}

func robotURL(host string) string {
	if net.ParseIP(host) != nil {
		return "http://" + host
	}
	return "http://" + host + ".local"
}

func cameraURL(host string) string {
	if net.ParseIP(host) != nil {
		return "http://" + host
	}
	return "http://" + host + "-cam.local"
}
