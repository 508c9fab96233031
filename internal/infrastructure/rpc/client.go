package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/bnema/tabbridge/internal/domain/entity"
)

// EventFrame is a decoded event stream frame. Args stay raw so callers can
// decode them per event name.
type EventFrame struct {
	Seq       uint64            `json:"seq"`
	Name      entity.EventName  `json:"name"`
	Args      []json.RawMessage `json:"args"`
	Timestamp time.Time         `json:"timestamp"`
}

// Client talks to a running bridge.
type Client struct {
	base   string
	http   *http.Client
	caller entity.Caller
}

// NewClient returns a client for addr (host:port or http URL) calling as caller.
func NewClient(addr string, caller entity.Caller) *Client {
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		base:   strings.TrimSuffix(base, "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
		caller: caller,
	}
}

// GetAll calls windows.getAll.
func (c *Client) GetAll(ctx context.Context) ([]entity.WindowDetails, error) {
	var out struct {
		Result []entity.WindowDetails `json:"result"`
	}
	if err := c.call(ctx, "windows.getAll", nil, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Get calls windows.get.
func (c *Client) Get(ctx context.Context, id entity.WindowID) (entity.WindowDetails, error) {
	var out struct {
		Result entity.WindowDetails `json:"result"`
	}
	err := c.call(ctx, "windows.get", map[string]any{"windowId": int(id)}, &out)
	return out.Result, err
}

func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", method, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+RPCPrefix+method, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCallerHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", method, err)
	}
	return nil
}

func (c *Client) setCallerHeaders(h http.Header) {
	if c.caller.ExtensionID != "" {
		h.Set(HeaderExtensionID, c.caller.ExtensionID)
	}
	if c.caller.ExtensionURL != "" {
		h.Set(HeaderExtensionURL, c.caller.ExtensionURL)
	}
	if c.caller.Kind != "" {
		h.Set(HeaderContextKind, string(c.caller.Kind))
	}
	h.Set(HeaderWindowID, strconv.Itoa(int(c.caller.WindowID)))
	h.Set(HeaderTabID, strconv.Itoa(int(c.caller.TabID)))
}

// Events opens the event stream. The channel closes when ctx ends or the
// connection drops.
func (c *Client) Events(ctx context.Context) (<-chan EventFrame, error) {
	url := "ws" + strings.TrimPrefix(c.base, "http") + EventsPath
	dialer := ws.Dialer{}
	if c.caller.ExtensionID != "" {
		dialer.Header = ws.HandshakeHeaderHTTP(http.Header{HeaderExtensionID: []string{c.caller.ExtensionID}})
	}

	conn, _, _, err := dialer.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	frames := make(chan EventFrame, 64)
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	go func() {
		defer close(frames)
		defer func() { _ = conn.Close() }()
		for {
			data, err := wsutil.ReadServerText(conn)
			if err != nil {
				return
			}
			var f EventFrame
			if err := json.Unmarshal(data, &f); err != nil {
				continue
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return frames, nil
}
