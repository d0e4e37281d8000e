package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warefleet/scanloc/internal/model"
	"github.com/warefleet/scanloc/internal/rack"
)

// QueryStore is the narrow store contract required by the HTTP API.
type QueryStore interface {
	model.ScanQuerier
}

// Recorder receives scans resolved through the HTTP API so they show up in
// history like any other source. May be nil to disable recording.
type Recorder interface {
	Add(record *model.ScanRecord)
}

// Server provides an HTTP API for resolving sequences and querying scan history.
type Server struct {
	addr      string
	store     QueryStore
	recorder  Recorder
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store QueryStore, recorder Recorder) *Server {
	if addr == "" {
		addr = "0.0.0.0:3100"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		store:    store,
		recorder: recorder,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/layout", s.handleLayout)
	r.GET("/api/resolve/:seq", s.handleResolve)
	r.GET("/api/recent", s.handleRecent)
	r.GET("/api/stats", s.handleStats)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.routes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	scanCount, err := s.store.TotalScanCount(model.QueryOpts{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"scan_count": scanCount,
	})
}

// handleLayout describes the physical rack layout: the addressing constants
// plus each rack's cells in screen order (top row first, leftmost column
// first), which is how renderers draw them.
func (s *Server) handleLayout(c *gin.Context) {
	racks := make([]gin.H, 0, rack.RackCount)
	for rk := 1; rk <= rack.RackCount; rk++ {
		rows := make([][]int, 0, rack.CellsPerColumn)
		for row := 0; row < rack.CellsPerColumn; row++ {
			cols := make([]int, 0, rack.ColumnsPerRack)
			for col := 0; col < rack.ColumnsPerRack; col++ {
				seq, _ := rack.SequenceAt(rk, col, row)
				cols = append(cols, seq)
			}
			rows = append(rows, cols)
		}
		racks = append(racks, gin.H{"rack": rk, "rows": rows})
	}

	c.JSON(http.StatusOK, gin.H{
		"min_sequence":     rack.MinSequence,
		"max_sequence":     rack.MaxSequence,
		"rack_count":       rack.RackCount,
		"columns_per_rack": rack.ColumnsPerRack,
		"cells_per_column": rack.CellsPerColumn,
		"racks":            racks,
	})
}

// handleResolve evaluates one raw sequence input. Every outcome is a 200;
// the outcome field tells the caller whether the input addressed a cell.
func (s *Server) handleResolve(c *gin.Context) {
	raw := c.Param("seq")

	engine := rack.NewEngine()
	tracker := rack.NewTracker(nil)
	res := rack.Dispatch(engine, tracker, raw)

	if s.recorder != nil {
		record := &model.ScanRecord{
			Timestamp: time.Now().UTC(),
			Raw:       raw,
			Outcome:   res.Outcome.Kind.String(),
			Cell:      -1,
			Source:    "http",
		}
		if res.Highlight {
			record.Sequence = res.Coord.Sequence()
			record.Rack = res.Coord.Rack
			record.Cell = res.Coord.Index
		}
		s.recorder.Add(record)
	}

	body := gin.H{
		"raw":     raw,
		"outcome": res.Outcome.Kind.String(),
	}
	if res.Highlight {
		body["sequence"] = res.Coord.Sequence()
		body["rack"] = res.Coord.Rack
		body["cell"] = res.Coord.Index
		body["column"] = res.Coord.Column()
		body["slot"] = res.Coord.Slot()
	}
	if errs := tracker.Active(); len(errs) > 0 {
		msgs := make([]gin.H, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, gin.H{"kind": e.Kind.String(), "message": e.Error()})
		}
		body["errors"] = msgs
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleRecent(c *gin.Context) {
	limit := model.DefaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	scans, err := s.store.RecentScans(limit, model.QueryOpts{Source: c.Query("source")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scans": scans,
		"count": len(scans),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	opts := model.QueryOpts{Source: c.Query("source")}

	total, err := s.store.TotalScanCount(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan stats"})
		return
	}
	outcomes, err := s.store.OutcomeCounts(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan stats"})
		return
	}
	sources, err := s.store.SourceCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan stats"})
		return
	}
	volume, err := s.store.MinuteVolume(time.Hour, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan stats"})
		return
	}

	// Per-rack cell heat: how often each cell was addressed by a valid scan.
	cells := make(map[string][]model.CellCount, rack.RackCount)
	for rk := 1; rk <= rack.RackCount; rk++ {
		counts, err := s.store.CellCounts(rk, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read scan stats"})
			return
		}
		cells[strconv.Itoa(rk)] = counts
	}

	c.JSON(http.StatusOK, gin.H{
		"total_scans":   total,
		"outcomes":      outcomes,
		"sources":       sources,
		"minute_volume": volume,
		"cell_counts":   cells,
	})
}
