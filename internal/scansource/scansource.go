package scansource

import "github.com/warefleet/scanloc/internal/model"

// ScanSource is a unified interface for all scan input sources (TCP, stdin).
type ScanSource interface {
	Lines() <-chan model.ScanEnvelope // read-only channel of raw scan lines
	Stop()                            // graceful shutdown
	Name() string                     // "tcp", "stdin"
}
