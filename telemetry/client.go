// Package telemetry records teleop runs to a twchart session service: one
// session per run, sensor probes for the range readings, events for the
// commands sent and stages for mission phases.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/calvinmclean/babyapi"
	"github.com/calvinmclean/twchart"
)

type Sensors []twchart.Probe

type Client struct {
	client *babyapi.Client[*run]
	runID  string
}

type run struct {
	// include NilResource so we don't implement Render/Bind which are not needed
	*babyapi.NilResource
	twchart.Session
}

func (r run) GetID() string {
	return r.Session.GetID()
}

func NewClient(addr string) *Client {
	client := babyapi.NewClient[*run](addr, "/sessions")
	return &Client{client: client}
}

// CreateRun starts a new session for this drive and remembers its ID for the
// follow-up calls.
func (c *Client) CreateRun(ctx context.Context, name string, sensors Sensors) (string, error) {
	resp, err := c.client.Post(ctx, &run{
		Session: twchart.Session{
			Name:   name,
			Date:   time.Now(),
			Probes: []twchart.Probe(sensors),
		},
	})
	if err != nil {
		return "", err
	}

	c.runID = resp.Data.GetID()

	return resp.Data.GetID(), nil
}

func (c Client) SetStartTime(ctx context.Context, startTime time.Time) error {
	_, err := c.client.Patch(ctx, c.runID, &run{Session: twchart.Session{
		StartTime: startTime,
	}})
	return err
}

// AddEvent records a point-in-time note, e.g. a command that was sent or an
// obstacle sighting.
func (c Client) AddEvent(ctx context.Context, note string, now time.Time) error {
	e := twchart.Event{Note: note, Time: now}

	url, _ := c.client.URL(c.runID)
	url += "/add-event"

	return c.makeRequest(ctx, url, e)
}

// AddStage marks the start of a named mission phase.
func (c Client) AddStage(ctx context.Context, name string, now time.Time) error {
	s := twchart.Stage{Name: name, Start: now}

	url, _ := c.client.URL(c.runID)
	url += "/add-stage"

	return c.makeRequest(ctx, url, s)
}

func (c Client) Done(ctx context.Context) error {
	url, _ := c.client.URL(c.runID)
	url += "/done"

	return c.makeRequest(ctx, url, map[string]any{"time": time.Now()})
}

func (c Client) makeRequest(ctx context.Context, url string, body any) error {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	if resp.Response.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d, response: %v", resp.Response.StatusCode, resp.Body)
	}

	return nil
}

// ParseSensors parses a string in the format "1=Name,2=Name,..." into sensor probes.
func ParseSensors(input string) (Sensors, error) {
	var sensors Sensors
	entries := strings.SplitSeq(input, ",")
	for entry := range entries {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid sensor entry: %q", entry)
		}
		posStr := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])

		var pos twchart.ProbePosition
		_, err := fmt.Sscanf(posStr, "%d", &pos)
		if err != nil || pos <= twchart.ProbePositionNone {
			return nil, fmt.Errorf("invalid sensor position: %q", posStr)
		}
		sensors = append(sensors, twchart.Probe{Name: name, Position: pos})
	}
	return sensors, nil
}
