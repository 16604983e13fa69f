// Package ports defines the interfaces (ports) that connect the lifecycle
// controller to the device's external collaborators.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// controller needs from the modem, display and provisioning stacks without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [StatusSink]: renders short status strings at fixed display positions
//   - [NetworkLink]: modem connectivity, functional mode and event delivery
//   - [ProvisioningAgent]: runs the remote provisioning exchange
//   - [TimeSource]: network time query used while re-entering normal mode
//   - [Restarter]: warm system restart
//   - [Clock]: cancellable sleep, faked in tests
//   - [OperationalPhase]: the long-running cloud phase handed off to at the end
//   - [BootRecordRepository]: persists boot bookkeeping
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// simulators, a text framebuffer, file storage and an HTTP heartbeat.
package ports
