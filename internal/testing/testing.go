// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/salterb/cast/internal/services"
)

// MockPlayer is a configurable test double for [services.Player].
//
// Each function field overrides the corresponding method; unset fields
// succeed with zero values. Call counters track interactions.
type MockPlayer struct {
	SearchFunc  func(ctx context.Context, query string) (*services.Track, error)
	QueueFunc   func(ctx context.Context, uri string) error
	PlayFunc    func(ctx context.Context, uri string) error
	SkipFunc    func(ctx context.Context) error
	PauseFunc   func(ctx context.Context) error
	ResumeFunc  func(ctx context.Context) error
	ShuffleFunc func(ctx context.Context, on bool) error
	CurrentFunc func(ctx context.Context) (*services.Track, error)
	DevicesFunc func(ctx context.Context) ([]services.Device, error)

	SearchCalls []string
	QueueCalls  []string
	PlayCalls   []string
	SkipCalls   int
	PauseCalls  int
	ResumeCalls int
}

func (m *MockPlayer) Search(ctx context.Context, query string) (*services.Track, error) {
	m.SearchCalls = append(m.SearchCalls, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return &services.Track{}, nil
}

func (m *MockPlayer) QueueTrack(ctx context.Context, uri string) error {
	m.QueueCalls = append(m.QueueCalls, uri)
	if m.QueueFunc != nil {
		return m.QueueFunc(ctx, uri)
	}
	return nil
}

func (m *MockPlayer) PlayTrack(ctx context.Context, uri string) error {
	m.PlayCalls = append(m.PlayCalls, uri)
	if m.PlayFunc != nil {
		return m.PlayFunc(ctx, uri)
	}
	return nil
}

func (m *MockPlayer) Skip(ctx context.Context) error {
	m.SkipCalls++
	if m.SkipFunc != nil {
		return m.SkipFunc(ctx)
	}
	return nil
}

func (m *MockPlayer) Pause(ctx context.Context) error {
	m.PauseCalls++
	if m.PauseFunc != nil {
		return m.PauseFunc(ctx)
	}
	return nil
}

func (m *MockPlayer) Resume(ctx context.Context) error {
	m.ResumeCalls++
	if m.ResumeFunc != nil {
		return m.ResumeFunc(ctx)
	}
	return nil
}

func (m *MockPlayer) SetShuffle(ctx context.Context, on bool) error {
	if m.ShuffleFunc != nil {
		return m.ShuffleFunc(ctx, on)
	}
	return nil
}

func (m *MockPlayer) CurrentlyPlaying(ctx context.Context) (*services.Track, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return &services.Track{}, nil
}

func (m *MockPlayer) Devices(ctx context.Context) ([]services.Device, error) {
	if m.DevicesFunc != nil {
		return m.DevicesFunc(ctx)
	}
	return nil, nil
}

func (m *MockPlayer) ActiveDevice(ctx context.Context) (*services.Device, error) {
	devices, err := m.Devices(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Active {
			return &d, nil
		}
	}
	return nil, errors.New("no active device")
}

func (m *MockPlayer) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

var (
	_ io.Writer       = (*FWriter)(nil)
	_ services.Player = (*MockPlayer)(nil)
)
