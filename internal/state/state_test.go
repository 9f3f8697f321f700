package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/simon/tmuxkit/internal/snapshot"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(at time.Time) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Label:     "before upgrade",
		Host:      "box",
		CreatedAt: at,
		Sessions: []snapshot.Session{
			{Name: "work", DirPath: "/home/u/work", Windows: []snapshot.Window{
				{Index: 0, Name: "editor", Layout: "b25d,80x24,0,0,0", Active: true, Panes: []snapshot.Pane{
					{Index: 0, Title: "vim", DirPath: "/home/u/work", Command: "vim", Active: true, Buffer: []byte("file\x1b[0m\n")},
				}},
				{Index: 1, Name: "build", Layout: "7568,158x40,0,0[158x20,0,0,5,158x19,0,21,6]", Panes: []snapshot.Pane{
					{Index: 0, DirPath: "/home/u/work/src", Command: "make"},
					{Index: 1, DirPath: "/home/u/work", Command: "zsh", Active: true, Buffer: []byte("$ ls\x1b[0m\n")},
				}},
			}},
			{Name: "empty", DirPath: "/tmp"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	at := time.UnixMilli(1_760_000_000_123)
	snap := sample(at)

	id, err := s.Save(snap)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" || snap.ID != id {
		t.Fatalf("Save() id = %q, snapshot id = %q", id, snap.ID)
	}

	got, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, at)
	}
	got.CreatedAt = snap.CreatedAt
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("Load() =\n%+v\nwant\n%+v", got, snap)
	}
}

func TestLoadByPrefix(t *testing.T) {
	s := openStore(t)
	snap := sample(time.Now())
	snap.ID = "abcd1234-0000"
	if _, err := s.Save(snap); err != nil {
		t.Fatal(err)
	}
	other := sample(time.Now())
	other.ID = "abce9999-0000"
	if _, err := s.Save(other); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("abcd")
	if err != nil || got.ID != snap.ID {
		t.Errorf("Load(abcd) = %v, %v", got, err)
	}
	if _, err := s.Load("abc"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Load(abc) error = %v, want ambiguity", err)
	}
	if _, err := s.Load("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(zzz) error = %v, want ErrNotFound", err)
	}
}

func TestListAndLatest(t *testing.T) {
	s := openStore(t)
	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest() on empty store error = %v", err)
	}

	base := time.UnixMilli(1_700_000_000_000)
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.Save(sample(base.Add(time.Duration(i) * time.Hour)))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	list, err := s.List(2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != ids[2] || list[1].ID != ids[1] {
		t.Fatalf("List(2) = %+v", list)
	}
	if list[0].Sessions != 2 || list[0].Windows != 2 || list[0].Panes != 3 {
		t.Errorf("counts = %d/%d/%d", list[0].Sessions, list[0].Windows, list[0].Panes)
	}
	if list[0].Label != "before upgrade" || list[0].Host != "box" {
		t.Errorf("summary = %+v", list[0])
	}

	latest, err := s.Latest()
	if err != nil || latest.ID != ids[2] {
		t.Errorf("Latest() = %v, %v", latest, err)
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	id, err := s.Save(sample(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Load(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after Delete error = %v", err)
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshot_panes").Scan(&n); err != nil || n != 0 {
		t.Errorf("%d pane rows left behind (%v)", n, err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Save(sample(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if _, err := s.Load(id); err != nil {
		t.Errorf("Load() after reopen error = %v", err)
	}
}
