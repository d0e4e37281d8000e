package scansource

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestStdinSourceForwardsLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	src := newStdinSourceWithReader(context.Background(), r)
	defer src.Stop()

	if _, err := w.WriteString("17\n\nbogus\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	_ = w.Close()

	want := []string{"17", "", "bogus"}
	for _, wline := range want {
		select {
		case env, ok := <-src.Lines():
			if !ok {
				t.Fatalf("lines channel closed before %q", wline)
			}
			if env.Source != "stdin" {
				t.Fatalf("Source = %q, want %q", env.Source, "stdin")
			}
			if env.Line != wline {
				t.Fatalf("Line = %q, want %q", env.Line, wline)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for line %q", wline)
		}
	}
}

func TestStdinSourceStopClosesLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer func() { _ = w.Close() }()

	src := newStdinSourceWithReader(context.Background(), r)
	src.Stop()

	select {
	case _, ok := <-src.Lines():
		if ok {
			t.Fatal("expected lines channel to be closed after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lines channel to close")
	}
}

func TestStdinSourceStopIsIdempotent(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer func() { _ = w.Close() }()

	src := newStdinSourceWithReader(context.Background(), r)
	src.Stop()
	src.Stop()
}
