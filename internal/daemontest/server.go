// Package daemontest runs an in-process fake piservod for wire-level tests.
// It serves the daemon's exact line protocol on a unix socket, including the
// error message text the real daemon emits, but drives no hardware.
package daemontest

import (
	"bufio"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	numChannels = 8
	maxGPIO     = 27

	defaultMinPulse = 1000
	defaultMaxPulse = 2000
)

type channelState struct {
	configured bool
	gpio       int
	enabled    bool
	minPulse   int
	maxPulse   int
	pulse      int
}

// Server is a fake piservod listening on a per-test unix socket.
type Server struct {
	listener net.Listener
	path     string

	mu       sync.Mutex
	channels [numChannels]channelState

	wg sync.WaitGroup
}

// Start launches the fake daemon on a socket under the test temp dir and
// registers cleanup with the test.
func Start(tb testing.TB) *Server {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "piservod.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		tb.Fatalf("listen unix %s: %v", path, err)
	}

	s := &Server{listener: listener, path: path}
	s.wg.Add(1)
	go s.acceptLoop()
	tb.Cleanup(s.Close)
	return s
}

// Path returns the socket path clients should dial.
func (s *Server) Path() string { return s.path }

// Close stops the listener and waits for connection handlers to finish.
func (s *Server) Close() {
	_ = s.listener.Close()
	s.wg.Wait()
}

// Channel returns a daemon-side state snapshot for assertions.
func (s *Server) Channel(channel int) (gpio int, enabled bool, minPulse, maxPulse, pulse int, configured bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := s.channels[channel]
	return ch.gpio, ch.enabled, ch.minPulse, ch.maxPulse, ch.pulse, ch.configured
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply := s.handle(strings.TrimSpace(scanner.Text()))
		if _, err := conn.Write([]byte(reply + "\n")); err != nil {
			return
		}
	}
}

// handle evaluates one command line and returns the single response line.
func (s *Server) handle(line string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERROR Unknown command"
	}

	switch fields[0] {
	case "SETUP":
		if len(fields) != 4 || fields[2] != "GPIO" {
			return "ERROR Unknown command"
		}
		ch, reply := s.parseChannel(fields[1])
		if reply != "" {
			return reply
		}
		gpio, err := strconv.Atoi(fields[3])
		if err != nil || gpio < 0 || gpio > maxGPIO {
			return fmt.Sprintf("ERROR Invalid GPIO %s", fields[3])
		}
		s.channels[ch] = channelState{
			configured: true,
			gpio:       gpio,
			minPulse:   defaultMinPulse,
			maxPulse:   defaultMaxPulse,
			pulse:      (defaultMinPulse + defaultMaxPulse) / 2,
		}
		return "OK"

	case "ENABLE", "DISABLE":
		if len(fields) != 2 {
			return "ERROR Unknown command"
		}
		ch, reply := s.parseConfigured(fields[1])
		if reply != "" {
			return reply
		}
		s.channels[ch].enabled = fields[0] == "ENABLE"
		return "OK"

	case "SET":
		if len(fields) < 3 {
			return "ERROR Unknown command"
		}
		ch, reply := s.parseConfigured(fields[1])
		if reply != "" {
			return reply
		}
		switch fields[2] {
		case "RANGE":
			if len(fields) != 5 {
				return "ERROR Unknown command"
			}
			minPulse, errMin := strconv.Atoi(fields[3])
			maxPulse, errMax := strconv.Atoi(fields[4])
			if errMin != nil || errMax != nil || minPulse >= maxPulse {
				return "ERROR min must be less than max"
			}
			s.channels[ch].minPulse = minPulse
			s.channels[ch].maxPulse = maxPulse
			return "OK"
		case "PULSE":
			if len(fields) != 4 {
				return "ERROR Unknown command"
			}
			pulse, err := strconv.Atoi(fields[3])
			if err != nil || pulse < s.channels[ch].minPulse || pulse > s.channels[ch].maxPulse {
				return fmt.Sprintf("ERROR Pulse %s out of range", fields[3])
			}
			s.channels[ch].pulse = pulse
			return "OK"
		}
		return "ERROR Unknown command"

	case "GET":
		if len(fields) != 3 {
			return "ERROR Unknown command"
		}
		ch, reply := s.parseConfigured(fields[1])
		if reply != "" {
			return reply
		}
		state := s.channels[ch]
		switch fields[2] {
		case "RANGE":
			return fmt.Sprintf("RANGE %d %d", state.minPulse, state.maxPulse)
		case "PULSE":
			return fmt.Sprintf("PULSE %d", state.pulse)
		case "STATE":
			enabled := 0
			if state.enabled {
				enabled = 1
			}
			return fmt.Sprintf("GPIO %d ENABLE %d", state.gpio, enabled)
		}
		return "ERROR Unknown command"
	}

	return "ERROR Unknown command"
}

// parseChannel validates the channel token; reply is non-empty on rejection.
func (s *Server) parseChannel(token string) (int, string) {
	ch, err := strconv.Atoi(token)
	if err != nil || ch < 0 || ch >= numChannels {
		return 0, fmt.Sprintf("ERROR Invalid channel %s", token)
	}
	return ch, ""
}

// parseConfigured additionally requires the channel to have been set up.
func (s *Server) parseConfigured(token string) (int, string) {
	ch, reply := s.parseChannel(token)
	if reply != "" {
		return 0, reply
	}
	if !s.channels[ch].configured {
		return 0, fmt.Sprintf("ERROR Channel %d not configured", ch)
	}
	return ch, ""
}
