package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestShared(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}

		t.Run("Nil Writer Defaults To Stderr", func(t *testing.T) {
			logger := NewLogger(nil)
			if logger == nil {
				t.Fatal("expected logger to be created")
			}
		})
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		child := WithLogger(logger, "component", "test")
		child.Info("tagged")

		out := buf.String()
		if !strings.Contains(out, "component") || !strings.Contains(out, "test") {
			t.Errorf("expected key-value pair in output, got %q", out)
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("suppressed")
		if strings.Contains(buf.String(), "suppressed") {
			t.Error("expected info message to be suppressed at error level")
		}

		logger.Error("reported")
		if !strings.Contains(buf.String(), "reported") {
			t.Error("expected error message to be reported")
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected valid uuid, got %q: %v", id, err)
		}

		if GenerateID() == id {
			t.Error("expected distinct ids")
		}
	})

	t.Run("GenerateState", func(t *testing.T) {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state == "" {
			t.Fatal("expected non-empty state")
		}

		other, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state == other {
			t.Error("expected distinct state tokens")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data := map[string]string{"key": "value"}

		compact, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(compact) != `{"key":"value"}` {
			t.Errorf("unexpected compact output %q", compact)
		}

		pretty, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(pretty), "\n") {
			t.Error("expected pretty output to be indented")
		}
	})
}
