package control

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

// HTTPClient is a thin resty wrapper over the introspection surface exposed
// by NewHTTPRouter, grounded on the teacher's pkg/cve/remote resty usage.
type HTTPClient struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPClient builds a client against baseURL (e.g. "http://127.0.0.1:7780").
func NewHTTPClient(baseURL string) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)
	return &HTTPClient{client: client, baseURL: baseURL}
}

// Modules fetches the registered module catalog from GET /modules.
func (c *HTTPClient) Modules() ([]string, error) {
	var body envelope
	resp, err := c.client.R().SetResult(&body).Get("/modules")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || body.Retcode != 0 {
		return nil, fmt.Errorf("control: GET /modules failed: %s", body.Message)
	}
	return decodeStringSlice(body.Payload)
}

// Messages fetches the registered message catalog from GET /messages.
func (c *HTTPClient) Messages() ([]string, error) {
	var body envelope
	resp, err := c.client.R().SetResult(&body).Get("/messages")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || body.Retcode != 0 {
		return nil, fmt.Errorf("control: GET /messages failed: %s", body.Message)
	}
	return decodeStringSlice(body.Payload)
}

// Healthy reports whether GET /healthz returns a healthy envelope.
func (c *HTTPClient) Healthy() (bool, error) {
	var body envelope
	resp, err := c.client.R().SetResult(&body).Get("/healthz")
	if err != nil {
		return false, err
	}
	return resp.IsSuccess() && body.Retcode == 0, nil
}

func decodeStringSlice(payload interface{}) ([]string, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SocketClient dials the Unix-domain control socket and issues one
// request/response round trip per call, mirroring the request/response
// framing used by Server.
type SocketClient struct {
	path string
}

// NewSocketClient returns a client for the control socket at path.
func NewSocketClient(path string) *SocketClient {
	return &SocketClient{path: path}
}

// Execute dials the socket, sends a single command frame, and reads back one
// response frame.
func (c *SocketClient) Execute(module string, args []string) (Response, error) {
	var resp Response

	conn, err := net.DialTimeout("unix", c.path, 5*time.Second)
	if err != nil {
		return resp, err
	}
	defer conn.Close()

	req := Request{Module: module, Args: args}
	payload, err := sonic.Marshal(req)
	if err != nil {
		return resp, err
	}
	payload = append(payload, '\n')
	if _, err := conn.Write(payload); err != nil {
		return resp, err
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return resp, err
		}
		return resp, fmt.Errorf("control: socket closed before a response was received")
	}

	if err := sonic.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return resp, err
	}
	return resp, nil
}
