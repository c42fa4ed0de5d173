package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerTimeouts http.Server limits; zero fields keep the net/http defaults
type ServerTimeouts struct {
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
}

type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, timeouts ServerTimeouts, logger *zap.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
		WriteTimeout:      timeouts.Write,
		IdleTimeout:       timeouts.Idle,
	}
	return &Server{httpServer: s, logger: logger}
}

// Listen binds the configured address; Addr then reports the bound port.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr bound address after Listen, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Serve blocks until Stop. A clean shutdown returns nil.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("http server is not listening")
	}
	s.logger.Info("Starting dcmonitor HTTP server",
		zap.String("addr", s.Addr()),
		zap.Duration("read_header_timeout", s.httpServer.ReadHeaderTimeout),
		zap.Duration("write_timeout", s.httpServer.WriteTimeout),
		zap.Duration("idle_timeout", s.httpServer.IdleTimeout),
	)
	if err := s.httpServer.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping dcmonitor HTTP server", zap.String("addr", s.Addr()))
	err := s.httpServer.Shutdown(ctx)
	if s.listener != nil {
		// Shutdown only closes listeners that Serve picked up
		_ = s.listener.Close()
	}
	return err
}
