// Package upload mirrors published files to an FTP server.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

// Sentinel errors for upload operations.
var (
	ErrConnect = errors.New("upload: connection failed")
	ErrLogin   = errors.New("upload: login failed")
	ErrStore   = errors.New("upload: transfer failed")
)

// DefaultTimeout bounds dialing and each FTP command.
const DefaultTimeout = 30 * time.Second

// Config describes the FTP server.
type Config struct {
	Address          string
	Port             int
	Username         string
	Password         string
	WorkingDirectory string // remote directory mirroring the output root
	Timeout          time.Duration
}

// conn is the subset of *ftp.ServerConn used for mirroring.
type conn interface {
	ChangeDir(path string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// Compile-time interface implementation check.
var _ conn = (*ftp.ServerConn)(nil)

// Mirror uploads files below a local output root to the same logical path
// below the remote working directory. A Mirror serializes its transfers.
type Mirror struct {
	conn    conn
	local   string
	remote  string
	mu      sync.Mutex
	created map[string]bool
}

// Dial connects and logs in to the server described by cfg. local is the
// output root the logical paths given to Upload are read from.
func Dial(ctx context.Context, cfg Config, local string) (*Mirror, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	port := cfg.Port
	if port == 0 {
		port = 21
	}

	addr := net.JoinHostPort(cfg.Address, strconv.Itoa(port))
	c, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, addr, err)
	}
	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		_ = c.Quit()
		return nil, fmt.Errorf("%w: %v", ErrLogin, err)
	}
	return newMirror(c, local, cfg.WorkingDirectory), nil
}

func newMirror(c conn, local, remote string) *Mirror {
	if remote == "" {
		remote = "/"
	}
	return &Mirror{
		conn:    c,
		local:   local,
		remote:  remote,
		created: map[string]bool{},
	}
}

// Upload mirrors one logical path, creating missing remote directories.
func (m *Mirror) Upload(ctx context.Context, logical string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	logical = path.Clean("/" + logical)
	if err := m.ensureDirs(path.Dir(logical)); err != nil {
		return err
	}

	localPath := m.local + string(os.PathSeparator) + strings.TrimPrefix(logical, "/")
	f, err := os.Open(localPath) // #nosec G304 -- path is below the output root
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStore, logical, err)
	}
	defer func() { _ = f.Close() }()

	if err := m.conn.Stor(path.Join(m.remote, logical), f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStore, logical, err)
	}
	return nil
}

// ensureDirs creates every missing remote directory on the way to dir.
func (m *Mirror) ensureDirs(dir string) error {
	current := m.remote
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" {
			continue
		}
		current = path.Join(current, segment)
		if m.created[current] {
			continue
		}
		if err := m.conn.ChangeDir(current); err != nil {
			if err := m.conn.MakeDir(current); err != nil {
				return fmt.Errorf("%w: mkdir %s: %v", ErrStore, current, err)
			}
		}
		m.created[current] = true
	}
	return nil
}

// Close ends the session.
func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn.Quit()
}
