package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/config"
)

type failingListener struct {
	addr net.Addr
}

func (l *failingListener) Accept() (net.Conn, error) { return nil, errors.New("accept failure") }
func (l *failingListener) Close() error              { return nil }
func (l *failingListener) Addr() net.Addr            { return l.addr }

func TestNetHTTPServerPropagatesListenerError(t *testing.T) {
	l := &failingListener{addr: &net.TCPAddr{IP: net.IPv4zero, Port: 0}}
	s := netHTTPServer{srv: &http.Server{Handler: http.NewServeMux()}, listener: l}

	if err := s.ListenAndServe(); err == nil {
		t.Fatalf("expected serve error from failing listener")
	}
}

func TestNetHTTPServerServesOnListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	s := netHTTPServer{srv: &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, listener: ln}

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("expected pong, got %q", body)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("serve did not return after shutdown")
	}
}

func TestBuildHTTPServerUsesConfiguredPortAndTimeouts(t *testing.T) {
	cfg := config.Config{Port: "4321"}
	srv := buildHTTPServer(cfg, nil, nil, nil, nil, nil)

	if srv.Addr() != ":4321" {
		t.Fatalf("expected addr :4321, got %q", srv.Addr())
	}
	ns, ok := srv.(netHTTPServer)
	if !ok {
		t.Fatalf("expected netHTTPServer, got %T", srv)
	}
	if ns.srv.WriteTimeout != writeTimeout || ns.srv.IdleTimeout != idleTimeout {
		t.Fatalf("unexpected timeouts write=%v idle=%v", ns.srv.WriteTimeout, ns.srv.IdleTimeout)
	}
	if srv.Handler() == nil {
		t.Fatalf("expected router handler")
	}
}
