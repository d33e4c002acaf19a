package logging

import "testing"

func TestModeFor(t *testing.T) {
	tests := []struct {
		service, verbose bool
		want             Mode
	}{
		{false, false, Quiet},
		{false, true, Verbose},
		{true, false, Service},
		{true, true, Verbose},
	}
	for _, tt := range tests {
		if got := ModeFor(tt.service, tt.verbose); got != tt.want {
			t.Errorf("ModeFor(%v, %v) = %v, want %v", tt.service, tt.verbose, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, m := range []Mode{Quiet, Verbose, Service} {
		logger, err := New(m)
		if err != nil {
			t.Fatalf("New(%d) error: %v", m, err)
		}
		if logger == nil {
			t.Fatalf("New(%d) returned nil logger", m)
		}
	}

	if _, err := New(Mode(42)); err == nil {
		t.Error("New(42) should fail")
	}
}
