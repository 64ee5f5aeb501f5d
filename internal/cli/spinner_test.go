package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fish-not-phish/eido/pkg/pipeline"
)

func clearedLine(msg string) string {
	return strings.Repeat(" ", len(msg)+4) + "\r"
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rendering checkout.eido...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering checkout.eido...") {
		t.Errorf("spinner output missing message: %q", out)
	}
	if !strings.Contains(out, spinnerFrames[0]) {
		t.Errorf("spinner output missing first frame: %q", out)
	}
	if !strings.HasSuffix(out, clearedLine("Rendering checkout.eido...")) {
		t.Errorf("Stop should blank the line, got %q", out)
	}
}

func TestSpinnerParentContext(t *testing.T) {
	timeout, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	cancelled, cancel := context.WithCancel(context.Background())

	tests := []struct {
		name   string
		ctx    context.Context
		cancel func()
	}{
		{"cancelled", cancelled, cancel},
		{"timed out", timeout, func() {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := startSpinner(tt.ctx, &buf, "Rendering...")
			tt.cancel()

			select {
			case <-s.Done():
			case <-time.After(time.Second):
				t.Fatal("spinner kept running after its context ended")
			}
			if !strings.HasSuffix(buf.String(), clearedLine("Rendering...")) {
				t.Errorf("line not blanked: %q", buf.String())
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rendering...")
	s.Stop()
	s.Stop()
}

func TestSpinnerSilentOnRegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stderr.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := startSpinner(context.Background(), f, "Rendering...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("spinner wrote %d bytes to a non-terminal file", info.Size())
	}
}

func TestSpinnerAroundRender(t *testing.T) {
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, newLogger(&bytes.Buffer{}, LogInfo))
	defer runner.Close()

	var buf bytes.Buffer
	s := startSpinner(ctx, &buf, "Rendering diagram.eido...")
	res, err := runner.Execute(ctx, sampleSource, pipeline.Options{Format: pipeline.FormatExcalidraw})
	s.Stop()

	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifact) == 0 {
		t.Error("render produced no artifact")
	}
	if out := buf.String(); !strings.HasSuffix(out, clearedLine("Rendering diagram.eido...")) {
		t.Errorf("spinner line not cleared after render: %q", out)
	}
}
