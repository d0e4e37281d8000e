package scansource

import (
	"github.com/warefleet/scanloc/internal/model"
	"github.com/warefleet/scanloc/internal/tcpserver"
)

// TCPSource wraps a tcpserver.Server as a ScanSource.
type TCPSource struct {
	server *tcpserver.Server
}

// NewTCPSource creates a TCPSource from an already-started TCP server.
func NewTCPSource(server *tcpserver.Server) *TCPSource {
	return &TCPSource{server: server}
}

func (t *TCPSource) Lines() <-chan model.ScanEnvelope { return t.server.Lines() }
func (t *TCPSource) Stop()                            { _ = t.server.Stop() }
func (t *TCPSource) Name() string                     { return "tcp" }
