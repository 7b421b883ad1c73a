package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	tests := []struct {
		env   string
		level zapcore.Level
	}{
		{"prod", zapcore.InfoLevel},
		{"local", zapcore.DebugLevel},
		{"dev", zapcore.DebugLevel},
		{"cli", zapcore.WarnLevel},
	}
	for _, tc := range tests {
		t.Run(tc.env, func(t *testing.T) {
			l, err := NewLogger(tc.env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", tc.env, err)
			}
			if !l.Core().Enabled(tc.level) {
				t.Errorf("level %s disabled", tc.level)
			}
			if tc.level > zapcore.DebugLevel && l.Core().Enabled(tc.level-1) {
				t.Errorf("level %s enabled, want minimum %s", tc.level-1, tc.level)
			}
		})
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "error")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn enabled with error override")
	}

	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown env")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil without logger")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext did not return stored logger")
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	// No logger in the context: the fallback is enriched.
	ctx := WithFields(context.Background(), base, zap.String("search_id", "s-1"))
	FromContext(ctx).Info("from fallback")

	// A context logger wins over the fallback.
	reqCtx := ContextWithLogger(context.Background(), base.With(zap.String("request_id", "r-1")))
	ctx = WithFields(reqCtx, zap.NewNop(), zap.String("search_id", "s-2"))
	FromContext(ctx).Info("from context")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["search_id"]; got != "s-1" {
		t.Errorf("first search_id = %v", got)
	}
	fields := entries[1].ContextMap()
	if fields["request_id"] != "r-1" || fields["search_id"] != "s-2" {
		t.Errorf("second fields = %v", fields)
	}
}
