package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
)

// MatchService provides the daemon's pattern matching and reload operations.
// Thread safety is the implementor's responsibility.
type MatchService interface {
	Matcher() ports.PatternMatcher
	Reload() (int, error) // re-read the pattern source, rebuild; returns pattern count
	Source() string       // human-readable pattern source (file path or dict name)
}

// Server is the daemon that listens on a Unix socket and serves match requests.
type Server struct {
	svc      MatchService
	listener net.Listener
	sockPath string
	started  time.Time

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by the given match service.
func NewServer(svc MatchService, sockPath string) *Server {
	return &Server{
		svc:        svc,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first — if the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		// Stale socket — remove it
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the
// socket file. Idempotent — safe to call multiple times (e.g., after remote
// shutdown + signal).
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB max message

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodMatch:
		return s.handleMatch(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodReload:
		return s.handleReload(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleMatch(req Request) Response {
	// Re-marshal params to decode into MatchParams
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: "invalid match params"}
	}
	var params MatchParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid match params"}
	}

	m := s.svc.Matcher()
	start := time.Now()
	patterns := m.Match(params.Text)
	found := m.Find(params.Text)
	elapsed := time.Since(start)

	spans := make([]MatchSpan, len(found))
	for i, f := range found {
		spans[i] = MatchSpan{Pattern: f.Pattern, Start: f.Start, End: f.End}
	}

	return Response{ID: req.ID, Result: MatchResult{
		Patterns: patterns,
		Matches:  spans,
		Count:    len(spans),
		Elapsed:  elapsed.String(),
	}}
}

func (s *Server) handleHealth(req Request) Response {
	return Response{ID: req.ID, Result: HealthResult{
		Status:       "ok",
		PatternCount: len(s.svc.Matcher().Patterns()),
		Source:       s.svc.Source(),
		Uptime:       time.Since(s.started).Round(time.Second).String(),
	}}
}

func (s *Server) handleReload(req Request) Response {
	start := time.Now()
	count, err := s.svc.Reload()
	if err != nil {
		return Response{ID: req.ID, Error: fmt.Sprintf("reload: %v", err)}
	}
	return Response{ID: req.ID, Result: ReloadResult{
		PatternCount: count,
		ElapsedMs:    time.Since(start).Milliseconds(),
	}}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
