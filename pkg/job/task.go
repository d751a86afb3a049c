package job

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// taskHandler runs one occurrence of a scheduled task.
type taskHandler func(ctx context.Context) error

// scheduledTask is a task registered through WithScheduledTask.
type scheduledTask struct {
	handler  taskHandler
	name     string
	schedule string
}

// taskRegistry stores task handlers by name.
type taskRegistry struct {
	handlers map[string]taskHandler
	mu       sync.RWMutex
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{
		handlers: make(map[string]taskHandler),
	}
}

// register adds a handler. It returns false if the name is taken.
func (r *taskRegistry) register(name string, h taskHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; ok {
		return false
	}
	r.handlers[name] = h
	return true
}

func (r *taskRegistry) get(name string) (taskHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// names returns registered task names in sorted order.
func (r *taskRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}
