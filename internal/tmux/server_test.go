package tmux

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

var listSessionsReady = []string{"list-sessions", "-F", "#{session_name}"}

func TestStartServerWaitsForReadiness(t *testing.T) {
	const failures = 3
	interval := 20 * time.Millisecond

	fake := newFakeRunner()
	var script []fakeResponse
	for i := 0; i < failures; i++ {
		script = append(script, fakeResponse{out: Output{ExitCode: 1, Stderr: []byte("no server running")}})
	}
	script = append(script, fakeResponse{})
	fake.on(listSessionsReady, script...)

	ctrl := NewController(fake, WithReadyInterval(interval), WithReadyTimeout(5*time.Second))
	start := time.Now()
	if err := ctrl.StartServer(context.Background(), "[placeholder]"); err != nil {
		t.Fatalf("StartServer() error = %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < failures*interval {
		t.Errorf("returned after %v, before %d polls of %v", elapsed, failures, interval)
	}
	if n := fake.callCount(listSessionsReady...); n != failures+1 {
		t.Errorf("polled %d times, want %d", n, failures+1)
	}
	if n := fake.callCount("new-session", "-d", "-s", "[placeholder]"); n != 1 {
		t.Errorf("new-session called %d times, want 1", n)
	}
}

func TestStartServerTimesOut(t *testing.T) {
	fake := newFakeRunner()
	fake.on(listSessionsReady, fakeResponse{out: Output{ExitCode: 1}})

	timeout := 100 * time.Millisecond
	ctrl := NewController(fake, WithReadyInterval(10*time.Millisecond), WithReadyTimeout(timeout))
	start := time.Now()
	err := ctrl.StartServer(context.Background(), "s")
	elapsed := time.Since(start)

	var uerr *UnexpectedOutputError
	if !errors.As(err, &uerr) || uerr.Intent != "wait-for-server-ready" {
		t.Fatalf("StartServer() error = %v, want wait-for-server-ready timeout", err)
	}
	if uerr.Stderr == "" {
		t.Error("timeout error should explain itself in stderr")
	}
	if elapsed < timeout {
		t.Errorf("gave up after %v, before the %v timeout", elapsed, timeout)
	}
}

func TestStartServerTimesOutWhilePollHangs(t *testing.T) {
	fake := newFakeRunner()
	fake.on(listSessionsReady, fakeResponse{block: true})

	ctrl := NewController(fake, WithReadyInterval(10*time.Millisecond), WithReadyTimeout(80*time.Millisecond))
	err := ctrl.StartServer(context.Background(), "s")
	if !IsUnexpectedOutput(err, "wait-for-server-ready") {
		t.Fatalf("StartServer() error = %v, want timeout", err)
	}
}

func TestStartServerSurfacesSpawnErrors(t *testing.T) {
	fake := newFakeRunner()
	spawn := errors.New("fork/exec tmux: resource temporarily unavailable")
	fake.on(listSessionsReady, fakeResponse{err: spawn})

	ctrl := NewController(fake, WithReadyInterval(10*time.Millisecond), WithReadyTimeout(time.Second))
	err := ctrl.StartServer(context.Background(), "s")
	var ioErr *IOError
	if !errors.As(err, &ioErr) || !errors.Is(err, spawn) {
		t.Fatalf("StartServer() error = %v, want IOError wrapping spawn failure", err)
	}
	if n := fake.callCount(listSessionsReady...); n != 1 {
		t.Errorf("polled %d times after a spawn error, want 1", n)
	}
}

func TestStartServerNewSessionFails(t *testing.T) {
	fake := newFakeRunner()
	fake.on([]string{"new-session", "-d", "-s", "dup"},
		fakeResponse{out: Output{ExitCode: 1, Stderr: []byte("duplicate session: dup")}})

	err := NewController(fake).StartServer(context.Background(), "dup")
	if !IsUnexpectedOutput(err, "new-session") {
		t.Fatalf("StartServer() error = %v, want new-session failure", err)
	}
	if n := fake.callCount(listSessionsReady...); n != 0 {
		t.Errorf("polled %d times after new-session failed", n)
	}
}

func TestStartServerHonorsCancellation(t *testing.T) {
	fake := newFakeRunner()
	fake.on(listSessionsReady, fakeResponse{out: Output{ExitCode: 1}})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	ctrl := NewController(fake, WithReadyInterval(5*time.Millisecond), WithReadyTimeout(5*time.Second))
	if err := ctrl.StartServer(ctx, "s"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("StartServer() error = %v, want context deadline", err)
	}
}

func TestParseOptions(t *testing.T) {
	out := "activity-action other\n" +
		"default-command ''\n" +
		"default-shell /bin/zsh\n" +
		"status-left \"[#S] \"\n" +
		"word-separators  -_@\n" +
		"empty-value \n" +
		"lonely\n"
	got := ParseOptions(out)
	want := Options{
		"activity-action": "other",
		"default-shell":   "/bin/zsh",
		"status-left":     `"[#S] "`,
		"word-separators": "-_@",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseOptions() = %v, want %v", got, want)
	}
}

func TestShowOptionsArgs(t *testing.T) {
	fake := newFakeRunner()
	fake.stdout([]string{"show-options", "-g"}, "base-index 1\n")
	fake.stdout([]string{"show-options"}, "")
	ctrl := NewController(fake)

	global, err := ctrl.ShowOptions(context.Background(), true)
	if err != nil || global["base-index"] != "1" {
		t.Errorf("ShowOptions(true) = %v, %v", global, err)
	}
	local, err := ctrl.ShowOptions(context.Background(), false)
	if err != nil || len(local) != 0 {
		t.Errorf("ShowOptions(false) = %v, %v", local, err)
	}
}

func TestShowOption(t *testing.T) {
	fake := newFakeRunner()
	fake.stdout([]string{"show-options", "-w", "-q", "-g", "mode-keys"}, "vi\n")
	ctrl := NewController(fake)

	v, ok, err := ctrl.ShowOption(context.Background(), "mode-keys", true)
	if err != nil || !ok || v != "vi" {
		t.Errorf("ShowOption(mode-keys) = %q, %v, %v", v, ok, err)
	}
	v, ok, err = ctrl.ShowOption(context.Background(), "unset-thing", false)
	if err != nil || ok || v != "" {
		t.Errorf("ShowOption(unset-thing) = %q, %v, %v; want absent", v, ok, err)
	}
	if got := fake.lastCall(); !reflect.DeepEqual(got, []string{"show-options", "-w", "-q", "unset-thing"}) {
		t.Errorf("argv = %q", got)
	}
}

func TestDefaultCommand(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{name: "zsh shell", opts: Options{"default-shell": "/bin/zsh"}, want: "/bin/zsh"},
		{name: "bash login shell", opts: Options{"default-shell": "/usr/bin/bash"}, want: "-l /usr/bin/bash"},
		{
			name: "default-command wins",
			opts: Options{"default-shell": "/bin/bash", "default-command": "reattach-to-user-namespace -l zsh"},
			want: "reattach-to-user-namespace -l zsh",
		},
		{name: "no shell", opts: Options{"default-command": "fish"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.DefaultCommand()
			if tt.wantErr {
				var cerr *ConfigError
				if !errors.As(err, &cerr) || cerr.Reason != "no default-shell" {
					t.Fatalf("DefaultCommand() error = %v, want ConfigError", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DefaultCommand() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestControllerDefaultCommandFallsThroughEmptyDefault(t *testing.T) {
	fake := newFakeRunner()
	fake.stdout([]string{"show-options", "-g"}, "default-command ''\ndefault-shell /bin/bash\n")

	got, err := NewController(fake).DefaultCommand(context.Background())
	if err != nil {
		t.Fatalf("DefaultCommand() error = %v", err)
	}
	if got != "-l /bin/bash" {
		t.Errorf("DefaultCommand() = %q, want the login shell", got)
	}
}
