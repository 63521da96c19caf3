package tor

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/txdig/internal/fetch"
)

// socksServer is a minimal unauthenticated SOCKS5 proxy for tests.
type socksServer struct {
	ln       net.Listener
	connects atomic.Int32
}

func newSOCKSServer(t *testing.T) *socksServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s := &socksServer{ln: ln}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *socksServer) addr() string {
	return s.ln.Addr().String()
}

func (s *socksServer) serve(conn net.Conn) {
	defer conn.Close()

	head := make([]byte, 2)
	if _, err := io.ReadFull(conn, head); err != nil {
		return
	}
	if _, err := io.ReadFull(conn, make([]byte, head[1])); err != nil {
		return
	}
	if _, err := conn.Write([]byte{0x05, 0x00}); err != nil {
		return
	}

	req := make([]byte, 4)
	if _, err := io.ReadFull(conn, req); err != nil {
		return
	}
	var host string
	switch req[3] {
	case 0x01:
		ip := make([]byte, 4)
		if _, err := io.ReadFull(conn, ip); err != nil {
			return
		}
		host = net.IP(ip).String()
	case 0x03:
		n := make([]byte, 1)
		if _, err := io.ReadFull(conn, n); err != nil {
			return
		}
		name := make([]byte, n[0])
		if _, err := io.ReadFull(conn, name); err != nil {
			return
		}
		host = string(name)
	default:
		return
	}
	portBuf := make([]byte, 2)
	if _, err := io.ReadFull(conn, portBuf); err != nil {
		return
	}
	port := binary.BigEndian.Uint16(portBuf)

	upstream, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		// host unreachable
		_, _ = conn.Write([]byte{0x05, 0x04, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		return
	}
	defer upstream.Close()
	s.connects.Add(1)

	if _, err := conn.Write([]byte{0x05, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0}); err != nil {
		return
	}
	go func() {
		_, _ = io.Copy(upstream, conn)
		_ = upstream.Close()
	}()
	_, _ = io.Copy(conn, upstream)
}

// answeringListener writes answer to every connection after reading the
// client greeting, then closes it.
func answeringListener(t *testing.T, answer []byte) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = io.ReadFull(conn, make([]byte, 3))
			_, _ = conn.Write(answer)
			_ = conn.Close()
		}
	}()
	return ln.Addr().String()
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("valid proxy address creates client", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("127.0.0.1:9050", 30*time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.ProxyAddress() != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress() = %q, want %q", client.ProxyAddress(), "127.0.0.1:9050")
		}
	})

	invalid := []string{"", "127.0.0.1", ":9050", "127.0.0.1:", "127.0.0.1:0", "127.0.0.1:65536", "127.0.0.1:tor", "::1:9050"}
	for _, addr := range invalid {
		t.Run("rejects "+strconv.Quote(addr), func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(addr, time.Second)
			if !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("NewClient(%q) error = %v, want ErrInvalidProxyAddress", addr, err)
			}
		})
	}
}

func TestIsValidProxyAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:9050", true},
		{"localhost:9150", true},
		{"[::1]:9050", true},
		{"tor.internal:1", true},
		{"127.0.0.1", false},
		{"", false},
		{":9050", false},
		{"host:-1", false},
	}
	for _, tt := range tests {
		if got := isValidProxyAddress(tt.addr); got != tt.want {
			t.Errorf("isValidProxyAddress(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestProxyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status ProxyStatus
		text   string
		err    error
	}{
		{ProxyStatusOK, "OK", nil},
		{ProxyStatusWrongType, "wrong type (not SOCKS5)", ErrProxyNotSOCKS5},
		{ProxyStatusCannotConnect, "cannot connect", ErrProxyCannotConnect},
		{ProxyStatusTimeout, "timeout", ErrProxyTimeout},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.text {
			t.Errorf("String() = %q, want %q", got, tt.text)
		}
		if got := tt.status.Error(); !errors.Is(got, tt.err) {
			t.Errorf("Error() = %v, want %v", got, tt.err)
		}
	}

	if ProxyStatus(99).String() != "unknown" {
		t.Error("expected unknown for out of range status")
	}
	if ProxyStatus(99).Error() == nil {
		t.Error("expected an error for out of range status")
	}
}

func TestCheckConnection(t *testing.T) {
	t.Parallel()

	t.Run("SOCKS5 proxy is OK", func(t *testing.T) {
		t.Parallel()

		srv := newSOCKSServer(t)
		client, err := NewClient(srv.addr(), time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if got := client.CheckConnection(context.Background()); got != ProxyStatusOK {
			t.Errorf("CheckConnection() = %v, want OK", got)
		}
	})

	for name, answer := range map[string][]byte{
		"HTTP server is wrong type":      []byte("HTTP/1.1 200 OK\r\n\r\n"),
		"SOCKS5 with auth is wrong type": {0x05, 0xFF},
		"SOCKS4 reply is wrong type":     {0x04, 0x5A},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			addr := answeringListener(t, answer)
			client, err := NewClient(addr, time.Second)
			if err != nil {
				t.Fatal(err)
			}
			if got := client.CheckConnection(context.Background()); got != ProxyStatusWrongType {
				t.Errorf("CheckConnection() = %v, want wrong type", got)
			}
		})
	}

	t.Run("closed port cannot connect", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addr := ln.Addr().String()
		_ = ln.Close()

		client, err := NewClient(addr, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if got := client.CheckConnection(context.Background()); got != ProxyStatusCannotConnect {
			t.Errorf("CheckConnection() = %v, want cannot connect", got)
		}
	})

	t.Run("silent server times out", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer ln.Close()
		go func() {
			for {
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				// hold the connection open without answering
				go func() {
					_, _ = io.Copy(io.Discard, conn)
					_ = conn.Close()
				}()
			}
		}()

		client, err := NewClient(ln.Addr().String(), time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if got := client.CheckConnection(context.Background()); got != ProxyStatusTimeout {
			t.Errorf("CheckConnection() = %v, want timeout", got)
		}
	})
}

func TestTransportRoutesFetchThroughProxy(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hash":"abc"}`))
	}))
	defer upstream.Close()

	srv := newSOCKSServer(t)
	client, err := NewClient(srv.addr(), 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	fetcher := fetch.NewClient(
		fetch.WithTransport(client.Transport()),
		fetch.WithPolicy(fetch.RetryPolicy{Attempts: 1}),
	)
	body, err := fetcher.Fetch(context.Background(), upstream.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != `{"hash":"abc"}` {
		t.Errorf("Fetch() body = %q", body)
	}
	if srv.connects.Load() == 0 {
		t.Error("expected the request to pass through the proxy")
	}
}

func TestDialContext(t *testing.T) {
	t.Parallel()

	t.Run("dials through proxy", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer ln.Close()
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = conn.Write([]byte("pong"))
			_ = conn.Close()
		}()

		srv := newSOCKSServer(t)
		client, err := NewClient(srv.addr(), time.Second)
		if err != nil {
			t.Fatal(err)
		}
		conn, err := client.DialContext(context.Background(), "tcp", ln.Addr().String())
		if err != nil {
			t.Fatalf("DialContext() error = %v", err)
		}
		defer conn.Close()

		got, err := io.ReadAll(conn)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "pong" {
			t.Errorf("read %q, want pong", got)
		}
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("127.0.0.1:9", time.Second)
		if err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := client.DialContext(ctx, "tcp", "example.com:80"); err == nil {
			t.Error("expected error with cancelled context")
		}
	})
}
