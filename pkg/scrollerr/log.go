package scrollerr

import (
	"fmt"
	"os"
)

// LogHandler is a Handler that logs conditions to stderr.
type LogHandler struct {
	// Verbose enables logging of conditions that are expected during
	// normal operation, like duplicate cancels.
	Verbose bool
}

// HandleSessionError logs an orphaned session event to stderr.
func (h *LogHandler) HandleSessionError(err *SessionError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[scrollkit] session %d dropped: %s\n", err.ID, err.Reason)
	}
}

// HandleNodeError logs a dead-node recovery to stderr.
func (h *LogHandler) HandleNodeError(err *NodeError) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[scrollkit] %s\n", err.Error())
}

// Silent is a Handler that discards everything. It is the default for
// routers constructed without an explicit handler.
type Silent struct{}

// HandleSessionError discards the error.
func (Silent) HandleSessionError(*SessionError) {}

// HandleNodeError discards the error.
func (Silent) HandleNodeError(*NodeError) {}
