package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// ErrSessionClosed is returned by Conn after Close.
var ErrSessionClosed = errors.New("session closed")

// Session hands out at most one pooled connection for the lifetime of a
// request. The connection is acquired on first use and released by Close.
type Session struct {
	db *sql.DB

	mu     sync.Mutex
	conn   *sql.Conn
	closed bool
}

func NewSession(db *sql.DB) *Session {
	return &Session{db: db}
}

// Conn returns the session connection, acquiring it if needed.
func (s *Session) Conn(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// Close releases the connection back to the pool. Calling it on a session
// that never acquired one, or calling it twice, is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
