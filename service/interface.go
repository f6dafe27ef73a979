// Package service runs long-lived subsystems through a common lifecycle
package service

// Service defines the lifecycle interface for infrastructure subsystems
// Services manage long-lived resources: settings stores, asset archives, audio output
//
// Lifecycle:
//  1. Construction (via factory)
//  2. Init(args...) - configuration from flags/env, open resources
//  3. Start() - begin operation
//  4. [runtime operation]
//  5. Stop() - release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	// Return nil or empty slice if no dependencies
	Dependencies() []string

	// Init configures the service from optional args
	// Args are service-specific (file paths, mute state)
	Init(args ...any) error

	// Start begins service operation
	// Called after all services have initialized
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}
