//go:build integration

package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// newTestServer starts a tmux server on a private socket and kills it when
// the test ends.
func newTestServer(t *testing.T) (*Controller, *LocalRunner) {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed")
	}
	runner := &LocalRunner{Socket: fmt.Sprintf("tmuxkit-test-%d-%d", os.Getpid(), time.Now().UnixNano())}
	ctrl := NewController(runner)

	ctx := context.Background()
	if err := ctrl.StartServer(ctx, "[placeholder]"); err != nil {
		t.Fatalf("StartServer() error = %v", err)
	}
	t.Cleanup(func() {
		runner.Run(context.Background(), "kill-server") //nolint:errcheck
	})
	return ctrl, runner
}

func TestIntegrationSessionLifecycle(t *testing.T) {
	ctrl, _ := newTestServer(t)
	ctx := context.Background()
	dir := t.TempDir()

	sid, wid, pid, err := ctrl.NewSession(ctx, Session{Name: "it"}, Window{Name: "first"}, Pane{DirPath: dir}, "")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if sid == "" || wid == "" || pid == "" {
		t.Fatalf("NewSession() ids = %q %q %q", sid, wid, pid)
	}

	exists, err := ctrl.HasSession(ctx, "it")
	if err != nil || !exists {
		t.Fatalf("HasSession(it) = %v, %v", exists, err)
	}
	if exists, _ := ctrl.HasSession(ctx, "i"); exists {
		t.Error("HasSession matched a prefix")
	}

	wid2, _, err := ctrl.NewWindow(ctx, Session{Name: "it"}, Window{Name: "second"}, Pane{DirPath: dir}, "")
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}
	if _, err := ctrl.NewPane(ctx, Pane{DirPath: dir}, "", wid2); err != nil {
		t.Fatalf("NewPane() error = %v", err)
	}
	if err := ctrl.SetLayout(ctx, "even-vertical", wid2); err != nil {
		t.Fatalf("SetLayout() error = %v", err)
	}
	if err := ctrl.SelectWindow(ctx, wid2); err != nil {
		t.Fatalf("SelectWindow() error = %v", err)
	}

	windows, err := ctrl.ListWindows(ctx)
	if err != nil {
		t.Fatalf("ListWindows() error = %v", err)
	}
	var found bool
	for _, w := range windows {
		if w.ID != wid2 {
			continue
		}
		found = true
		ids, err := w.PaneIDs()
		if err != nil || len(ids) != 2 {
			t.Errorf("PaneIDs() = %v, %v", ids, err)
		}
		layout, err := ParseLayout(w.Layout)
		if err != nil || !layout.Valid() || layout.Root.Kind != LayoutVertical {
			t.Errorf("layout %q: %+v, %v", w.Layout, layout, err)
		}
		if !w.IsActive || !w.InSession("it") {
			t.Errorf("window = %+v", w)
		}
	}
	if !found {
		t.Fatalf("window %s not listed", wid2)
	}

	panes, err := ctrl.ListPanes(ctx)
	if err != nil {
		t.Fatalf("ListPanes() error = %v", err)
	}
	if len(panes) < 3 {
		t.Errorf("ListPanes() = %d panes, want at least 3", len(panes))
	}

	buf, err := ctrl.CapturePane(ctx, pid)
	if err != nil {
		t.Fatalf("CapturePane() error = %v", err)
	}
	if cleaned := CleanupCapturedBuffer(buf, 0); !strings.HasSuffix(string(cleaned), "\x1b[0m\n") {
		t.Errorf("cleaned capture = %q", cleaned)
	}

	if _, err := ctrl.DefaultCommand(ctx); err != nil {
		t.Errorf("DefaultCommand() error = %v", err)
	}

	if err := ctrl.KillSession(ctx, "it"); err != nil {
		t.Fatalf("KillSession() error = %v", err)
	}
	if err := ctrl.KillSession(ctx, "it"); !IsUnexpectedOutput(err, "kill-session") {
		t.Errorf("second KillSession() error = %v", err)
	}
}
