package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// captureStatus redirects status lines into a buffer for the test.
func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prev })
	return &buf
}

func TestSpinnerDrawsMessage(t *testing.T) {
	out := captureStatus(t)

	s := newSpinner("Rendering SVG...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Rendering SVG...") {
		t.Errorf("spinner output = %q, want the message", out.String())
	}
	if !strings.HasSuffix(out.String(), "\r") {
		t.Errorf("spinner should clear its line on stop, got %q", out.String())
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	captureStatus(t)

	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinnerWithContext(ctx, "Rendering SVG...")
			s.Start()
			time.Sleep(100 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation once its context is done")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStatus(t)

	s := newSpinner("Rendering SVG...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerResultLines(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"success", func(s *Spinner) { s.StopWithSuccess("Rendered 3 nodes") }, "Rendered 3 nodes"},
		{"error", func(s *Spinner) { s.StopWithError("SVG rendering failed") }, "SVG rendering failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStatus(t)
			s := newSpinner("Rendering SVG...")
			s.Start()
			tt.stop(s)

			last := out.String()[strings.LastIndex(out.String(), "\r")+1:]
			if !strings.Contains(last, tt.want) {
				t.Errorf("final status line = %q, want %q", last, tt.want)
			}
		})
	}
}
