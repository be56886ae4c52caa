package shader

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/logger"
)

// ErrUnknownProgram is returned for a program name with no built-in source.
var ErrUnknownProgram = errors.New("unknown shader program")

// Library compiles the built-in programs and keeps them reloadable.
type Library struct {
	programs map[string]*Program
	watcher  *Watcher
	reloader *Reloader
}

// NewLibrary compiles every built-in program. When dir is set, sources are
// read from it (falling back to the embedded copies) and, with hotReload,
// edits under dir are recompiled by Poll.
func NewLibrary(dir string, hotReload bool) (*Library, error) {
	sources, err := librarySources(Names(), dir)
	if err != nil {
		return nil, err
	}
	l := &Library{programs: make(map[string]*Program)}

	var changes <-chan string
	if hotReload && dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			w, err := NewWatcher(dir)
			if err != nil {
				logger.Warn("shader hot reload disabled", zap.String("dir", dir), zap.Error(err))
			} else {
				l.watcher = w
				changes = w.Changes()
			}
		}
	}
	l.reloader = NewReloader(changes)

	for _, name := range Names() {
		p, err := New(sources[name])
		if err != nil {
			l.Delete()
			return nil, err
		}
		l.programs[name] = p
		l.reloader.Track(p)
	}
	return l, nil
}

// librarySources resolves the source of every named program.
func librarySources(names []string, dir string) (map[string]Source, error) {
	out := make(map[string]Source, len(names))
	for _, name := range names {
		src, ok := Lookup(name, dir)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
		}
		out[name] = src
	}
	return out, nil
}

// Get returns a compiled program; it panics on an unknown name since the
// set is fixed at build time.
func (l *Library) Get(name string) *Program {
	p, ok := l.programs[name]
	if !ok {
		panic(fmt.Sprintf("shader %q not in library", name))
	}
	return p
}

// Shader is Get behind the gpu.Shader interface.
func (l *Library) Shader(name string) gpu.Shader { return l.Get(name) }

// Poll recompiles programs whose files changed since the last call.
func (l *Library) Poll() int { return l.reloader.Poll() }

// ReloadAll recompiles every program that has source files.
func (l *Library) ReloadAll() int { return l.reloader.ReloadAll() }

// Delete stops watching and frees every program.
func (l *Library) Delete() {
	if l.watcher != nil {
		if err := l.watcher.Close(); err != nil {
			logger.Warn("closing shader watcher", zap.Error(err))
		}
		l.watcher = nil
	}
	for _, p := range l.programs {
		p.Delete()
	}
	l.programs = make(map[string]*Program)
}
