// Copyright 2026 The gridlens Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"errors"
	"sort"
	"sync"
)

// Factory creates a new Device with the given options.
// Implementations should validate options and return descriptive errors.
type Factory func(opts Options) (Device, error)

// RegistryEntry represents a registered graphics driver.
type RegistryEntry struct {
	// Name is the unique identifier for this driver.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: hardware devices (OpenGL)
	//   - 10: pure software devices
	Priority int

	// Factory creates device instances.
	Factory Factory

	// Available reports if the driver can run on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered graphics drivers.
//
// Drivers register themselves from an init function so applications
// select them with a blank import:
//
//	import _ "github.com/gridlens/gridlens/driver/gldriver"
//
// Example usage:
//
//	dev, err := driver.NewDeviceByName("gl", opts)
//	// or auto-select best available:
//	dev, err := driver.NewDevice(opts)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewDevice.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a driver to the global registry.
//
// If available is nil, the driver is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a driver from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered driver names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available drivers sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// NewDevice creates a device using the best available driver.
// Returns an error if no drivers are available.
func NewDevice(opts Options) (Device, error) {
	return globalRegistry.NewDevice(opts)
}

// NewDeviceByName creates a device using a specific named driver.
func NewDeviceByName(name string, opts Options) (Device, error) {
	return globalRegistry.NewDeviceByName(name, opts)
}

// Register adds a driver to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a driver from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered driver names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available drivers sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// NewDevice creates a device using the best available driver.
func (r *Registry) NewDevice(opts Options) (Device, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoDriverAvailable
	}

	// Try each available driver in priority order.
	var lastErr error
	for _, name := range available {
		dev, err := r.NewDeviceByName(name, opts)
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoDriverAvailable
}

// NewDeviceByName creates a device using a specific driver.
func (r *Registry) NewDeviceByName(name string, opts Options) (Device, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &UnavailableError{Name: name}
	}

	return entry.Factory(opts)
}

// sortedNames returns driver names sorted by priority (highest first).
// If onlyAvailable is true, filters to available drivers only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoDriverAvailable is returned when no graphics drivers are
	// registered or available on the current system.
	ErrNoDriverAvailable = errors.New("driver: no driver available")
)

// NotFoundError indicates a named driver is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "driver: not registered: " + e.Name
}

// UnavailableError indicates a driver exists but cannot run here.
type UnavailableError struct {
	Name string
}

func (e *UnavailableError) Error() string {
	return "driver: unavailable: " + e.Name
}
