package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warefleet/scanloc/internal/duckdb"
	"github.com/warefleet/scanloc/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type captureRecorder struct {
	records []*model.ScanRecord
}

func (c *captureRecorder) Add(record *model.ScanRecord) {
	c.records = append(c.records, record)
}

func newTestServer(t *testing.T) (*Server, *duckdb.Store, *captureRecorder, *gin.Engine) {
	t.Helper()
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rec := &captureRecorder{}
	srv := NewServer("", store, rec)
	srv.startTime = time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	srv.routes(r)

	return srv, store, rec, r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal %s: %v; body: %s", path, err, w.Body.String())
		}
	}
	return w.Code, body
}

func TestHealthEndpoint(t *testing.T) {
	_, _, _, r := newTestServer(t)

	code, body := getJSON(t, r, "/api/health")
	if code != http.StatusOK {
		t.Errorf("health status = %d, want %d", code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, _, _, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Gin returns 405 for method not allowed when a route exists but not for this method
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestResolveEndpoint_Valid(t *testing.T) {
	_, _, rec, r := newTestServer(t)

	code, body := getJSON(t, r, "/api/resolve/81")
	if code != http.StatusOK {
		t.Fatalf("resolve status = %d, want %d", code, http.StatusOK)
	}
	if body["outcome"] != "valid" {
		t.Errorf("outcome = %v, want valid", body["outcome"])
	}
	if body["rack"] != float64(2) || body["cell"] != float64(0) {
		t.Errorf("rack/cell = %v/%v, want 2/0", body["rack"], body["cell"])
	}
	if len(rec.records) != 1 || rec.records[0].Source != "http" {
		t.Fatalf("recorded = %+v, want one record with source http", rec.records)
	}
}

func TestResolveEndpoint_OutOfRange(t *testing.T) {
	_, _, _, r := newTestServer(t)

	code, body := getJSON(t, r, "/api/resolve/161")
	if code != http.StatusOK {
		t.Fatalf("resolve status = %d, want %d", code, http.StatusOK)
	}
	if body["outcome"] != "out_of_range" {
		t.Errorf("outcome = %v, want out_of_range", body["outcome"])
	}
	errs, ok := body["errors"].([]interface{})
	if !ok || len(errs) != 1 {
		t.Fatalf("errors = %v, want one entry", body["errors"])
	}
	first := errs[0].(map[string]interface{})
	if first["message"] != "Sequence must be between 1 and 160." {
		t.Errorf("message = %v, want range message", first["message"])
	}
}

func TestResolveEndpoint_Invalid(t *testing.T) {
	_, _, _, r := newTestServer(t)

	code, body := getJSON(t, r, "/api/resolve/banana")
	if code != http.StatusOK {
		t.Fatalf("resolve status = %d, want %d", code, http.StatusOK)
	}
	if body["outcome"] != "invalid" {
		t.Errorf("outcome = %v, want invalid", body["outcome"])
	}
	errs, ok := body["errors"].([]interface{})
	if !ok || len(errs) != 1 {
		t.Fatalf("errors = %v, want one entry", body["errors"])
	}
	first := errs[0].(map[string]interface{})
	if first["message"] != "Sequence must be a positive integer." {
		t.Errorf("message = %v, want not-a-number message", first["message"])
	}
}

func TestLayoutEndpoint(t *testing.T) {
	_, _, _, r := newTestServer(t)

	code, body := getJSON(t, r, "/api/layout")
	if code != http.StatusOK {
		t.Fatalf("layout status = %d, want %d", code, http.StatusOK)
	}
	if body["min_sequence"] != float64(1) || body["max_sequence"] != float64(160) {
		t.Errorf("sequence bounds = %v..%v, want 1..160", body["min_sequence"], body["max_sequence"])
	}

	racks, ok := body["racks"].([]interface{})
	if !ok || len(racks) != 2 {
		t.Fatalf("racks = %v, want 2 entries", body["racks"])
	}
	rack1 := racks[0].(map[string]interface{})
	rows := rack1["rows"].([]interface{})
	if len(rows) != 16 {
		t.Fatalf("rack 1 rows = %d, want 16", len(rows))
	}
	topRow := rows[0].([]interface{})
	// Screen order: top row of rack 1 reads 80 64 48 32 16.
	want := []float64{80, 64, 48, 32, 16}
	for i, w := range want {
		if topRow[i] != w {
			t.Errorf("rack 1 top row[%d] = %v, want %v", i, topRow[i], w)
		}
	}
}

func TestRecentEndpoint(t *testing.T) {
	_, store, _, r := newTestServer(t)

	err := store.InsertScanBatch([]*duckdb.ScanRecord{
		{Timestamp: time.Now(), Raw: "5", Outcome: "valid", Sequence: 5, Rack: 1, Cell: 4, Source: "tcp"},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	code, body := getJSON(t, r, "/api/recent?limit=10")
	if code != http.StatusOK {
		t.Fatalf("recent status = %d, want %d", code, http.StatusOK)
	}
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestRecentEndpoint_BadLimit(t *testing.T) {
	_, _, _, r := newTestServer(t)

	code, _ := getJSON(t, r, "/api/recent?limit=zero")
	if code != http.StatusBadRequest {
		t.Errorf("recent status = %d, want %d", code, http.StatusBadRequest)
	}
}

func TestStatsEndpoint(t *testing.T) {
	_, store, _, r := newTestServer(t)

	err := store.InsertScanBatch([]*duckdb.ScanRecord{
		{Timestamp: time.Now(), Raw: "5", Outcome: "valid", Sequence: 5, Rack: 1, Cell: 4, Source: "tcp"},
		{Timestamp: time.Now(), Raw: "junk", Outcome: "invalid", Cell: -1, Source: "stdin"},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	code, body := getJSON(t, r, "/api/stats")
	if code != http.StatusOK {
		t.Fatalf("stats status = %d, want %d", code, http.StatusOK)
	}
	if body["total_scans"] != float64(2) {
		t.Errorf("total_scans = %v, want 2", body["total_scans"])
	}
	outcomes := body["outcomes"].(map[string]interface{})
	if outcomes["valid"] != float64(1) || outcomes["invalid"] != float64(1) {
		t.Errorf("outcomes = %v, want valid=1 invalid=1", outcomes)
	}

	cells, ok := body["cell_counts"].(map[string]interface{})
	if !ok {
		t.Fatalf("cell_counts = %v, want per-rack map", body["cell_counts"])
	}
	rack1, ok := cells["1"].([]interface{})
	if !ok || len(rack1) != 1 {
		t.Fatalf("rack 1 cell counts = %v, want one entry", cells["1"])
	}
	top := rack1[0].(map[string]interface{})
	if top["cell"] != float64(4) || top["count"] != float64(1) {
		t.Errorf("top cell = %v, want cell 4 count 1", top)
	}
}

func TestGinRecovery(t *testing.T) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("panic recovery status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
