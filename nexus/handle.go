package nexus

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/go-nexus/storage"
)

type handleState int

const (
	stateClosed handleState = iota
	stateOpen
	stateInvalid
)

func (s handleState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("handleState(%d)", int(s))
	}
}

// handleCache is the handle a Loader reuses between calls.
//
//	Closed  --acquire-->                Closed   fresh handle, closed by release
//	Open    --acquire, group ok-->      Open     retained handle reused
//	Open    --acquire, group fails-->   Invalid  then as below
//	Invalid --acquire-->                Closed   retained handle dropped, fresh one opened
//	any     --close-->                  Closed
//
// A retained handle is closed only if the cache opened it (owned).
type handleCache struct {
	state  handleState
	h      storage.Handle
	owned  bool
	logger *slog.Logger
}

// adopt retains a handle supplied by the caller.
func (c *handleCache) adopt(h storage.Handle) {
	if h == nil {
		return
	}
	c.h, c.owned, c.state = h, false, stateOpen
}

// acquire returns a handle with groupPath open, and a release function to
// call at the end of the call. With keep set, a freshly opened handle is
// retained instead of closed on release.
func (c *handleCache) acquire(groupPath string, open func() (storage.Handle, error), keep bool) (storage.Handle, func() error, error) {
	if c.state == stateOpen {
		err := c.h.OpenGroupPath(groupPath)
		if err == nil {
			return c.h, noRelease, nil
		}
		c.logger.Debug("retained handle failed, reopening", "group", groupPath, "error", err)
		c.state = stateInvalid
	}
	if c.state == stateInvalid {
		if err := c.close(); err != nil {
			c.logger.Debug("closing invalid handle", "error", err)
		}
	}

	h, err := open()
	if err != nil {
		return nil, nil, err
	}
	if err := h.OpenGroupPath(groupPath); err != nil {
		return nil, nil, errors.Join(err, h.Close())
	}
	if keep {
		c.h, c.owned, c.state = h, true, stateOpen
		return h, noRelease, nil
	}
	return h, h.Close, nil
}

// close releases the retained handle, closing it if owned.
func (c *handleCache) close() error {
	h, owned := c.h, c.owned
	c.h, c.owned, c.state = nil, false, stateClosed
	if h != nil && owned {
		return h.Close()
	}
	return nil
}

func noRelease() error { return nil }
