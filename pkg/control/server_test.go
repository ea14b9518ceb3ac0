package control

import (
	"bufio"
	"net"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/ncerzzk/rpos-go/pkg/common"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	resetForTesting()
	Register(Module{
		Name: "echo",
		Init: func(args []string) (string, error) {
			if len(args) == 0 {
				return "", nil
			}
			return args[0], nil
		},
	})

	path := filepath.Join(t.TempDir(), "rpos-control.sock")
	srv, err := NewServer(path, nil)
	require.NoError(t, err)

	go srv.Serve()
	t.Cleanup(func() { srv.Close() })

	return path
}

func TestServerDispatchesToRegisteredModule(t *testing.T) {
	path := startTestServer(t)
	client := NewSocketClient(path)

	resp, err := client.Execute("echo", []string{"hello"})
	require.NoError(t, err)
	require.Equal(t, "hello", resp.Result)
	require.Empty(t, resp.Error)
}

func TestServerReturnsErrorForUnknownModule(t *testing.T) {
	path := startTestServer(t)
	client := NewSocketClient(path)

	resp, err := client.Execute("missing", nil)
	require.NoError(t, err)
	require.Empty(t, resp.Result)
	require.NotEmpty(t, resp.Error)
	require.Equal(t, string(common.ErrCodeModuleNotFound), resp.Code)
}

func TestServerHandlesMultipleSequentialRequestsOnOneConnection(t *testing.T) {
	path := startTestServer(t)
	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for i := 0; i < 3; i++ {
		_, err := conn.Write([]byte(`{"module":"echo","args":["hello"]}` + "\n"))
		require.NoError(t, err)
		require.True(t, scanner.Scan())

		var resp Response
		require.NoError(t, sonic.Unmarshal(scanner.Bytes(), &resp))
		require.Equal(t, "hello", resp.Result)
	}
}

func TestServerCloseStopsAcceptingConnections(t *testing.T) {
	resetForTesting()
	path := filepath.Join(t.TempDir(), "rpos-control.sock")
	srv, err := NewServer(path, nil)
	require.NoError(t, err)
	go srv.Serve()

	require.NoError(t, srv.Close())

	_, err = NewSocketClient(path).Execute("anything", nil)
	require.Error(t, err)
}
