package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProgram struct {
	name    string
	files   []string
	reloads int
	err     error
}

func (f *fakeProgram) Name() string    { return f.name }
func (f *fakeProgram) Files() []string { return f.files }
func (f *fakeProgram) Reload() error {
	f.reloads++
	return f.err
}

func TestReloaderPoll(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "object.frag")
	object := &fakeProgram{name: "object", files: []string{filepath.Join(dir, "object.vert"), shared}}
	instanced := &fakeProgram{name: "instanced", files: []string{filepath.Join(dir, "instanced.vert"), shared}}
	broken := &fakeProgram{name: "light", files: []string{filepath.Join(dir, "light.vert")}, err: errors.New("syntax")}

	changes := make(chan string, 8)
	r := NewReloader(changes)
	r.Track(object)
	r.Track(instanced)
	r.Track(broken)

	assert.Zero(t, r.Poll(), "nothing pending")

	changes <- canonical(shared)
	changes <- canonical(shared)
	changes <- canonical(filepath.Join(dir, "object.vert"))
	assert.Equal(t, 2, r.Poll())
	assert.Equal(t, 1, object.reloads, "one reload per program per poll")
	assert.Equal(t, 1, instanced.reloads)

	changes <- canonical(filepath.Join(dir, "light.vert"))
	changes <- canonical(filepath.Join(dir, "unrelated.txt"))
	assert.Zero(t, r.Poll())
	assert.Equal(t, 1, broken.reloads)

	assert.Equal(t, 2, r.ReloadAll())
}

func TestReloaderWithoutWatcher(t *testing.T) {
	r := NewReloader(nil)
	p := &fakeProgram{name: "p", files: []string{"a.vert"}}
	r.Track(p)
	assert.Zero(t, r.Poll())
	assert.Equal(t, 1, r.ReloadAll())
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terrain.frag")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("b"), 0644))

	select {
	case got := <-w.Changes():
		assert.Equal(t, canonical(path), got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
