package control

import (
	"bufio"
	"net"
	"os"

	"github.com/bytedance/sonic"

	"github.com/ncerzzk/rpos-go/pkg/common"
)

// Request is one control-socket command frame: {"module": "...", "args": [...]}.
type Request struct {
	Module string   `json:"module"`
	Args   []string `json:"args,omitempty"`
}

// Response is one control-socket reply frame.
type Response struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// Server is a Unix-domain control socket dispatching newline-delimited JSON
// request frames to the module registry, grounded on the teacher's
// cmd/broker/transport/uds_transport.go accept-loop/bufio.Scanner pattern,
// simplified here to one command in, one response out per line.
type Server struct {
	path     string
	listener net.Listener
	logger   *common.Logger
}

// NewServer creates a control socket server listening on path. Any
// pre-existing socket file at path is removed first, matching the original
// server_client.rs's behavior of binding fresh on each start.
func NewServer(path string, logger *common.Logger) (*Server, error) {
	if logger == nil {
		logger = common.NewLogger(os.Stdout, "control", common.InfoLevel)
	}
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Server{path: path, listener: ln, logger: logger}, nil
}

// Serve accepts connections until the listener is closed, handling each on
// its own goroutine.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting new connections and removes the socket file.
func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		resp := Response{}
		if err := sonic.Unmarshal(line, &req); err != nil {
			resp.Error = "malformed control request"
			resp.Code = string(common.ErrCodeBadRequest)
		} else {
			result, err := Execute(req.Module, req.Args)
			if err != nil {
				stdErr := common.MapError(err)
				resp.Error = stdErr.Error()
				resp.Code = string(stdErr.Code)
			} else {
				resp.Result = result
			}
		}

		out, err := sonic.Marshal(resp)
		if err != nil {
			s.logger.Error("control: failed to marshal response: %v", err)
			return
		}
		out = append(out, '\n')
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}
