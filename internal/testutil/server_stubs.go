package testutil

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/preston-bernstein/owl-calendar-service/internal/poller"
)

// StubPoller implements the server's poller contract for tests.
type StubPoller struct {
	StartCalls   int
	StopCalls    int
	RefreshCalls atomic.Int32
	Err          error
	StatusVal    poller.Status
}

func (p *StubPoller) Start(ctx context.Context) {
	_ = ctx
	p.StartCalls++
}

func (p *StubPoller) Stop(ctx context.Context) error {
	_ = ctx
	p.StopCalls++
	return p.Err
}

func (p *StubPoller) Status() poller.Status {
	return p.StatusVal
}

// RefreshNow counts the call and returns StatusVal.
func (p *StubPoller) RefreshNow(ctx context.Context) poller.Status {
	_ = ctx
	p.RefreshCalls.Add(1)
	return p.StatusVal
}

// StubHTTPServer implements httpServer for tests.
type StubHTTPServer struct {
	AddrVal       string
	HandlerVal    http.Handler
	ListenCalls   int
	ShutdownCalls int
	ListenErr     error
	ShutdownErr   error
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.ListenCalls++
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.ShutdownCalls++
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string {
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	return s.HandlerVal
}

// BlockingHTTPServer blocks ListenAndServe until shut down, like a real listener.
type BlockingHTTPServer struct {
	AddrVal       string
	HandlerVal    http.Handler
	ShutdownCalls atomic.Int32
	stopped       chan struct{}
	once          atomic.Bool
}

// NewBlockingHTTPServer returns a server whose ListenAndServe returns ErrServerClosed after Shutdown.
func NewBlockingHTTPServer(addr string) *BlockingHTTPServer {
	return &BlockingHTTPServer{AddrVal: addr, HandlerVal: http.NewServeMux(), stopped: make(chan struct{})}
}

func (b *BlockingHTTPServer) ListenAndServe() error {
	<-b.stopped
	return http.ErrServerClosed
}

func (b *BlockingHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	b.ShutdownCalls.Add(1)
	if b.once.CompareAndSwap(false, true) {
		close(b.stopped)
	}
	return nil
}

func (b *BlockingHTTPServer) Addr() string {
	return b.AddrVal
}

func (b *BlockingHTTPServer) Handler() http.Handler {
	return b.HandlerVal
}
