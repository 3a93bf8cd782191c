package launch

import (
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"testing"
	"time"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"echo hi", []string{"echo", "hi"}},
		{"  konsole   -e  htop ", []string{"konsole", "-e", "htop"}},
		{"steam\tsteam://open/games", []string{"steam", "steam://open/games"}},
	}

	for _, tt := range tests {
		cmd := Command(tt.line)
		if cmd == nil {
			t.Fatalf("Command(%q) = nil", tt.line)
		}
		if !slices.Equal(cmd.Args, tt.want) {
			t.Errorf("Command(%q).Args = %q, want %q", tt.line, cmd.Args, tt.want)
		}
	}

	for _, line := range []string{"", "   ", "\t\n"} {
		if cmd := Command(line); cmd != nil {
			t.Errorf("Command(%q) = %v, want nil", line, cmd.Args)
		}
	}
}

func newTestLauncher(start func(cmd *exec.Cmd) error) *Launcher {
	l := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.start = start
	return l
}

func TestLaunchDoesNotBlock(t *testing.T) {
	started := make(chan []string, 1)
	release := make(chan struct{})
	l := newTestLauncher(func(cmd *exec.Cmd) error {
		started <- cmd.Args
		<-release
		return errors.New("not started")
	})

	done := make(chan struct{})
	go func() {
		l.Launch("echo hi")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Launch blocked on process start")
	}

	select {
	case args := <-started:
		if !slices.Equal(args, []string{"echo", "hi"}) {
			t.Errorf("args = %q", args)
		}
	case <-time.After(time.Second):
		t.Fatal("command was never started")
	}
	close(release)
}

func TestLaunchBlankIsIgnored(t *testing.T) {
	called := make(chan struct{}, 1)
	l := newTestLauncher(func(cmd *exec.Cmd) error {
		called <- struct{}{}
		return nil
	})

	l.Launch("   ")

	select {
	case <-called:
		t.Error("blank command should not be started")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLaunchMissingBinaryIsSwallowed(t *testing.T) {
	l := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	// 失敗しても panic せず戻ること
	l.Launch("/nonexistent/deck-remap-test-binary --flag")
	time.Sleep(50 * time.Millisecond)
}
