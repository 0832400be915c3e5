// Package gateway routes every persistence call to the remote store when it
// is usable and to the local store otherwise, returning one result shape
// for both.
package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/repo"
)

// State is the lifecycle state of the remote connection handle.
type State int

const (
	// StateUninitialized means no connection attempt has been made yet.
	StateUninitialized State = iota
	// StateReady means the remote store connected and is in use.
	StateReady
	// StateUnavailable means the last connection attempt failed or the
	// remote store is not configured. It stays so until Reconnect.
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

// Remote bundles the remote-store repositories produced by a successful connect.
type Remote struct {
	Registrations repo.RegistrationRepo
	References    repo.ReferenceRepo
	Categories    repo.ProductCategoryRepo

	// Close releases the underlying connections. May be nil.
	Close func()
}

// ConnectFunc opens the remote store. It should return a *domain.StoreError
// so the failure kind is visible in Status.
type ConnectFunc func(ctx context.Context) (*Remote, error)

// Status is a snapshot of the connection handle.
type Status struct {
	State     State
	LastError error
	ChangedAt time.Time
}

// connectTimeout bounds one connection attempt. The attempt is detached
// from the caller's cancellation, so a client that goes away mid-request
// does not mark the shared handle unavailable.
const connectTimeout = 10 * time.Second

// Client is the remote connection handle. Initialization is lazy: the
// first call to Remote connects, and the outcome is kept until Reconnect.
// A nil ConnectFunc means the remote store is not configured.
type Client struct {
	connect ConnectFunc
	now     func() time.Time

	mu        sync.Mutex
	state     State
	remote    *Remote
	lastErr   error
	changedAt time.Time
}

// NewClient returns an uninitialized Client.
func NewClient(connect ConnectFunc) *Client {
	return &Client{connect: connect, now: time.Now}
}

// Remote returns the connected repositories, connecting on first use.
// When the handle is unavailable it returns the error of the last attempt
// without trying again.
func (c *Client) Remote(ctx context.Context) (*Remote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateUninitialized {
		c.connectLocked(ctx)
	}
	if c.state != StateReady {
		return nil, c.lastErr
	}
	return c.remote, nil
}

// Reconnect drops the current connection, if any, and connects again.
func (c *Client) Reconnect(ctx context.Context) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	c.connectLocked(ctx)
	return c.statusLocked()
}

// Status reports the current state without connecting.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Close releases the remote connection. The handle returns to uninitialized.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.state = StateUninitialized
	c.lastErr = nil
}

func (c *Client) connectLocked(ctx context.Context) {
	const op = "gateway.Client.connect"
	defer func() { c.changedAt = c.now() }()

	if c.connect == nil {
		c.state = StateUnavailable
		c.lastErr = domain.NewStoreError(domain.KindNotConfigured, op, errors.New("remote store not configured"))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), connectTimeout)
	defer cancel()
	r, err := c.connect(ctx)
	if err == nil && r == nil {
		err = errors.New("connect returned no remote")
	}
	if err != nil {
		var se *domain.StoreError
		if !errors.As(err, &se) {
			err = domain.NewStoreError(domain.KindTransient, op, err)
		}
		c.state = StateUnavailable
		c.lastErr = err
		return
	}
	c.state = StateReady
	c.remote = r
	c.lastErr = nil
}

func (c *Client) closeLocked() {
	if c.remote != nil && c.remote.Close != nil {
		c.remote.Close()
	}
	c.remote = nil
}

func (c *Client) statusLocked() Status {
	return Status{State: c.state, LastError: c.lastErr, ChangedAt: c.changedAt}
}
