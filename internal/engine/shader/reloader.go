package shader

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/logger"
)

type reloadable interface {
	Name() string
	Files() []string
	Reload() error
}

// Reloader maps changed files to the programs built from them.
type Reloader struct {
	changes <-chan string
	targets map[string][]reloadable
	all     []reloadable
}

// NewReloader reads file changes from changes, which may be nil when hot
// reload is off.
func NewReloader(changes <-chan string) *Reloader {
	return &Reloader{changes: changes, targets: make(map[string][]reloadable)}
}

// Track registers a program for reload.
func (r *Reloader) Track(p reloadable) {
	r.all = append(r.all, p)
	for _, f := range p.Files() {
		key := canonical(f)
		r.targets[key] = append(r.targets[key], p)
	}
}

// Poll drains pending changes without blocking and reloads each affected
// program once. It returns the number of programs reloaded successfully.
func (r *Reloader) Poll() int {
	if r.changes == nil {
		return 0
	}
	pending := make(map[reloadable]bool)
	var order []reloadable
drain:
	for {
		select {
		case path := <-r.changes:
			for _, p := range r.targets[path] {
				if !pending[p] {
					pending[p] = true
					order = append(order, p)
				}
			}
		default:
			break drain
		}
	}
	return reload(order)
}

// ReloadAll reloads every tracked program.
func (r *Reloader) ReloadAll() int {
	return reload(r.all)
}

func reload(ps []reloadable) int {
	n := 0
	for _, p := range ps {
		if err := p.Reload(); err != nil {
			logger.Error("shader reload failed", zap.String("name", p.Name()), zap.Error(err))
			continue
		}
		logger.Info("shader reloaded", zap.String("name", p.Name()))
		n++
	}
	return n
}
