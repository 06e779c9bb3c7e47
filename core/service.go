package core

import (
	"context"
	"fmt"
	"sync"
)

// Interface defines a common interface for all services
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

type entry struct {
	name    string
	service Interface
}

// Registry starts the dashboard services in registration order and stops
// them in reverse. Only services that started are stopped.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	started int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a named service. Names only show up in logs and errors.
func (r *Registry) Register(name string, service Interface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{name: name, service: service})
}

// Names lists the registered services in start order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// StartAll starts every service not yet started. When one fails, the ones
// started before it are stopped again and the error names the failing service.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.started < len(r.entries) {
		e := r.entries[r.started]
		log.Debugf("Core: Starting %s", e.name)
		if err := e.service.Start(ctx); err != nil {
			log.Errorf("Core: Failed to start %s: %v", e.name, err)
			r.stopLocked()
			return fmt.Errorf("start %s: %w", e.name, err)
		}
		r.started++
	}
	log.Infof("Core: Started %d services", r.started)
	return nil
}

// StopAll stops the started services in reverse order. Calling it again is a no-op.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Registry) stopLocked() {
	for r.started > 0 {
		r.started--
		e := r.entries[r.started]
		log.Debugf("Core: Stopping %s", e.name)
		e.service.Stop()
	}
}
