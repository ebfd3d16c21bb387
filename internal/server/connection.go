package server

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"redikv/internal/redikv"
	redikvErrors "redikv/internal/redikv/errors"

	"github.com/hashicorp/go-hclog"
	"github.com/oklog/ulid/v2"
)

// handleConnection serves one client. Each Read is taken as exactly one
// request frame and answered with exactly one reply frame.
func (s *Server) handleConnection(conn net.Conn) {
	logger := s.logger.With("conn", ulid.Make().String(), "client", conn.RemoteAddr().String())

	defer s.untrack(conn)
	defer conn.Close()
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("connection worker panicked", "panic", recovered)
		}
	}()

	s.metrics.ClientConnected()
	defer s.metrics.ClientDisconnected()

	logger.Info("accepted new client")

	buffer := make([]byte, s.readBufferSize)
	for {
		if s.idleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}

		n, err := conn.Read(buffer)
		if n == 0 || err != nil {
			logDisconnect(logger, err)
			return
		}

		frame := buffer[:n]
		logger.Trace("raw command", "frame", string(frame))

		command, err := redikv.Parse(frame)
		if err != nil {
			s.metrics.ObserveParseError(err)
			logger.Warn("rejected request", "error", err)

			if writeErr := writeReply(conn, redikv.ErrorReply(err)); writeErr != nil {
				logger.Warn("unable to write to client", "error", writeErr)
				return
			}
			if s.mustClose(err) {
				logger.Info("closing client after error")
				return
			}
			continue
		}

		logger.Debug("command", "name", command.Name(), "args", command.Args())

		reply := s.executor.Execute(command)
		logger.Trace("returning reply", "reply", string(reply))

		if err := writeReply(conn, reply); err != nil {
			logger.Warn("unable to write to client", "error", err)
			return
		}
	}
}

func (s *Server) mustClose(err error) bool {
	var parseErr *redikvErrors.ParseError
	if errors.As(err, &parseErr) && parseErr.Fatal() {
		return true
	}
	return s.closeOnError
}

func writeReply(conn net.Conn, reply []byte) error {
	_, err := conn.Write(reply)
	return err
}

func logDisconnect(logger hclog.Logger, err error) {
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		logger.Info("client disconnected")
	case errors.Is(err, os.ErrDeadlineExceeded):
		logger.Info("client idle timeout")
	default:
		logger.Warn("client disconnected", "error", err)
	}
}
