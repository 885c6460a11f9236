package pixaccel

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/pixaccel/backend/software"
	"github.com/gogpu/pixaccel/internal/dispatchtest"
	"github.com/gogpu/pixaccel/pixfmt"
)

func TestNopHandler(t *testing.T) {
	var h slog.Handler = nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("depth", 24)}).(nopHandler); !ok {
		t.Error("WithAttrs() did not return a nopHandler")
	}
	if _, ok := h.WithGroup("upload").(nopHandler); !ok {
		t.Error("WithGroup() did not return a nopHandler")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	if Logger().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger is enabled")
	}

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)
	if Logger() != custom {
		t.Error("Logger() did not return the logger passed to SetLogger")
	}

	SetLogger(nil)
	if l := Logger(); l == nil || l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

// loggingDevice records the logger it receives.
type loggingDevice struct {
	*software.Device
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) { d.logger = l }

func TestSetLoggerPropagatesToScreens(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	dev := &loggingDevice{Device: software.New()}
	s := NewScreen(dev)
	defer s.Close()

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)

	if dev.logger != custom {
		t.Error("SetLogger did not propagate to the screen device via loggerSetter")
	}
}

func TestNewScreenPropagatesCurrentLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)

	dev := &loggingDevice{Device: software.New()}
	s := NewScreen(dev)
	defer s.Close()

	if dev.logger != custom {
		t.Error("NewScreen did not propagate current logger to device")
	}
}

func TestClosedScreenStopsReceivingLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	dev := &loggingDevice{Device: software.New()}
	s := NewScreen(dev)
	s.Close()
	before := dev.logger

	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if dev.logger != before {
		t.Error("closed screen still receives logger updates")
	}
}

func TestFallbackIsLogged(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	s := NewScreen(software.New(software.WithFlavor(pixfmt.Embedded)))
	defer s.Close()
	if err := s.SetALU(GXxor); err == nil {
		t.Fatal("SetALU(GXxor) on embedded = nil, want error")
	}
	if !strings.Contains(buf.String(), "fallback") {
		t.Errorf("expected fallback log entry, got: %s", buf.String())
	}
}

func TestRestoreFailureIsLogged(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	c := dispatchtest.New(software.New())
	s := NewScreen(c)
	defer s.Close()
	p, err := s.CreatePicture(4, 4, pixfmt.A8R8G8B8, UsageGPU)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []string{dispatchtest.CreateTexture, dispatchtest.TexImage, dispatchtest.TexSubImage, dispatchtest.DrawTextured} {
		c.Fail[m] = true
	}

	s.RestorePixmap(p)
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "restore") {
		t.Errorf("expected a restore warning, got: %s", out)
	}
}

func TestSetLoggerWhileScreensOpen(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := NewScreen(&loggingDevice{Device: software.New()})
			s.Close()
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}
