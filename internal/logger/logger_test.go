package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/oggyb/crush-reveal/internal/config"
)

// captureStdout redirects stdout to a buffer during f()
func captureStdout(t *testing.T, f func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	_ = r.Close()

	return buf.String()
}

func TestBuild_Formats(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		log    func(l *slog.Logger)
		want   []string
		absent []string
	}{
		{
			name: "text with component",
			cfg:  Config{Level: "debug", Format: FormatText, Component: "crush_server"},
			log:  func(l *slog.Logger) { l.Info("submission stored", "submitter", 42) },
			want: []string{"msg=\"submission stored\"", "component=crush_server", "submitter=42"},
		},
		{
			name: "json",
			cfg:  Config{Level: "info", Format: FormatJSON, Component: "json_test"},
			log:  func(l *slog.Logger) { l.Info("results revealed", "matches", 2) },
			want: []string{`"msg":"results revealed"`, `"component":"json_test"`, `"matches":2`},
		},
		{
			name:   "level filter",
			cfg:    Config{Level: "error", Format: FormatText},
			log:    func(l *slog.Logger) { l.Info("hidden"); l.Warn("hidden too"); l.Error("shown") },
			want:   []string{"shown"},
			absent: []string{"hidden"},
		},
		{
			name:   "unknown level means info",
			cfg:    Config{Level: "chatty", Format: FormatText},
			log:    func(l *slog.Logger) { l.Debug("hidden"); l.Info("shown") },
			want:   []string{"shown"},
			absent: []string{"hidden"},
		},
		{
			name: "source",
			cfg:  Config{Level: "info", Format: FormatJSON, WithSource: true},
			log:  func(l *slog.Logger) { l.Info("where") },
			want: []string{`"source":`, "logger_test.go"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.Output = &buf
			tt.log(build(tt.cfg))

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in %s", w, out)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("did not expect %q in %s", a, out)
				}
			}
		})
	}
}

func TestInitFromConfig_WritesToStdout(t *testing.T) {
	cfg := config.Default()
	cfg.Log = config.LogConfig{Level: "debug", Format: "JSON", Component: "cfg_test"}

	out := captureStdout(t, func() {
		InitFromConfig(cfg)
		With("week", "2026-41").Debug("schedule computed")
	})
	t.Cleanup(func() { Init(&Config{Level: "info", Format: FormatText}) })

	if !strings.Contains(out, `"msg":"schedule computed"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"component":"cfg_test"`) || !strings.Contains(out, `"week":"2026-41"`) {
		t.Errorf("expected component and child fields, got: %s", out)
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := build(Config{Level: "debug", Format: FormatText, Output: &buf}).With("request_id", "abc")
	fallback := Discard()

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx).Info("scoped")
	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("expected request scoped field, got: %s", buf.String())
	}

	if FromContextOr(ctx, fallback) != scoped {
		t.Error("expected the context logger to win over the fallback")
	}
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Error("expected fallback without a context logger")
	}
	if FromContextOr(context.Background(), nil) != L() {
		t.Error("expected global logger when nothing else is set")
	}
}
