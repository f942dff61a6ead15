package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

// ErrResidentRunning means the resident port is already taken.
var ErrResidentRunning = errors.New("another instance is already running")

// Server owns the resident port.
type Server struct {
	lis  net.Listener
	port int
}

// Listen binds the first port of the range. A taken port means a resident
// already runs.
func Listen() (*Server, error) {
	port := configuredPorts().first
	addr := fmt.Sprintf("%s:%d", residentHost, port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return nil, fmt.Errorf("%w: %v", ErrResidentRunning, err)
	}
	log.Printf("singleinstance: listening on %s", addr)
	return &Server{lis: lis, port: port}, nil
}

// Port returns the bound port.
func (s *Server) Port() int { return s.port }

// Serve answers pings and passes commands to handle until ctx is done.
func (s *Server) Serve(ctx context.Context, handle func(Command) error) error {
	go func() {
		<-ctx.Done()
		_ = s.lis.Close()
	}()
	for {
		c, err := s.lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.serveConn(c, handle)
	}
}

func (s *Server) serveConn(c net.Conn, handle func(Command) error) {
	defer c.Close()
	remote := c.RemoteAddr().String()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return
	}
	w := bufio.NewWriter(c)
	defer w.Flush()

	if line == pingRequest {
		log.Printf("singleinstance: PING from %s -> PONG", remote)
		_, _ = w.WriteString(pongResponse)
		return
	}
	cmd, err := ParseCommand(line)
	if err == nil {
		log.Printf("singleinstance: %s from %s", cmd, remote)
		err = handle(cmd)
	}
	if err != nil {
		_, _ = w.WriteString(errResponse + strings.ReplaceAll(err.Error(), "\n", " "))
		return
	}
	_, _ = w.WriteString(okResponse)
}

func (s *Server) Close() error { return s.lis.Close() }
