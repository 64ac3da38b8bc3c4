package server

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/panjf2000/gnet/v2"
	"github.com/pkg/errors"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lojhan/custom-collections/internal/resp"
)

const (
	DefaultPort = "6379"
)

var ErrNotRunning = errors.New("server is not running")

type Stats struct {
	ConnectedClients int64
	TotalConnections int64
	CommandsExecuted int64
	ProtocolErrors   int64
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMulticore(multicore bool) Option {
	return func(s *Server) {
		s.multicore = multicore
	}
}

// Server speaks RESP over gnet event loops. Handlers run on the event loop
// goroutines, so with multicore enabled they must be safe for concurrent use.
type Server struct {
	gnet.BuiltinEventEngine

	eng       gnet.Engine
	handlers  map[string]resp.Handler
	mu        sync.RWMutex
	logger    *zap.Logger
	multicore bool
	booted    chan struct{}
	bootOnce  sync.Once

	connected      atomic.Int64
	accepted       atomic.Int64
	commands       atomic.Int64
	protocolErrors atomic.Int64
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		handlers: make(map[string]resp.Handler),
		logger:   zap.NewNop(),
		booted:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) RegisterCommand(name string, handler resp.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[strings.ToUpper(name)] = handler
}

func (s *Server) GetHandler(name string) resp.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlers[strings.ToUpper(name)]
}

// Start blocks serving port until Stop is called.
func (s *Server) Start(port string) error {
	if port == "" {
		port = DefaultPort
	}

	addr := "tcp://:" + port
	err := gnet.Run(s, addr,
		gnet.WithMulticore(s.multicore),
		gnet.WithTCPNoDelay(gnet.TCPNoDelay),
		gnet.WithLogger(s.logger.Sugar()),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to serve %s", addr)
	}
	return nil
}

// Ready is closed once the engine is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.booted
}

func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.booted:
	default:
		return ErrNotRunning
	}

	if err := s.eng.Stop(ctx); err != nil {
		return errors.Wrap(err, "failed to stop engine")
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) ClientCount() int {
	return int(s.connected.Load())
}

func (s *Server) Stats() Stats {
	return Stats{
		ConnectedClients: s.connected.Load(),
		TotalConnections: s.accepted.Load(),
		CommandsExecuted: s.commands.Load(),
		ProtocolErrors:   s.protocolErrors.Load(),
	}
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.eng = eng
	s.bootOnce.Do(func() { close(s.booted) })
	s.logger.Info("server listening", zap.Bool("multicore", s.multicore))
	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	s.connected.Inc()
	s.accepted.Inc()
	s.logger.Debug("client connected", zap.Stringer("remote", c.RemoteAddr()))
	return nil, gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) gnet.Action {
	s.connected.Dec()
	if err != nil {
		s.logger.Debug("client disconnected", zap.Stringer("remote", c.RemoteAddr()), zap.Error(err))
	} else {
		s.logger.Debug("client disconnected", zap.Stringer("remote", c.RemoteAddr()))
	}
	return gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Peek(-1)
	if err != nil {
		s.logger.Warn("failed to read inbound buffer", zap.Stringer("remote", c.RemoteAddr()), zap.Error(err))
		return gnet.Close
	}

	out := bytebufferpool.Get()
	defer bytebufferpool.Put(out)

	consumed, procErr := s.process(buf, out)
	if _, err := c.Discard(consumed); err != nil {
		s.logger.Warn("failed to discard inbound bytes", zap.Stringer("remote", c.RemoteAddr()), zap.Error(err))
		return gnet.Close
	}

	if out.Len() > 0 {
		if _, err := c.Write(out.B); err != nil {
			s.logger.Warn("failed to write reply", zap.Stringer("remote", c.RemoteAddr()), zap.Error(err))
			return gnet.Close
		}
	}

	if procErr != nil {
		s.protocolErrors.Inc()
		s.logger.Warn("protocol error", zap.Stringer("remote", c.RemoteAddr()), zap.Error(procErr))
		return gnet.Close
	}
	return gnet.None
}

// process executes every complete frame at the start of buf, writing replies
// to w, and returns how many bytes it consumed. A trailing partial frame is
// left for the next call.
func (s *Server) process(buf []byte, w io.Writer) (int, error) {
	serializer := resp.NewSerializer(w)
	consumed := 0

	for consumed < len(buf) {
		value, n, err := resp.Decode(buf[consumed:])
		if errors.Is(err, resp.ErrIncomplete) {
			break
		}
		if err != nil {
			if serr := serializer.Serialize(resp.ErrorValue("ERR protocol error")); serr != nil {
				return consumed, serr
			}
			return consumed, err
		}
		consumed += n

		if err := serializer.Serialize(s.execute(value)); err != nil {
			return consumed, err
		}
	}

	return consumed, nil
}

func (s *Server) execute(value resp.Value) resp.Value {
	if value.Type != resp.Array {
		return resp.ErrorValue("ERR protocol error: expected array")
	}

	if len(value.Array) == 0 {
		return resp.ErrorValue("ERR empty command")
	}

	cmdValue := value.Array[0]
	if cmdValue.Type != resp.BulkString {
		return resp.ErrorValue("ERR protocol error: command must be bulk string")
	}

	handler := s.GetHandler(cmdValue.Str)
	if handler == nil {
		return resp.ErrorValue(fmt.Sprintf("ERR unknown command '%s'", cmdValue.Str))
	}

	s.commands.Inc()
	return handler(value.Array[1:])
}
