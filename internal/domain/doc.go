// Package domain contains the core domain types for the modem provisioning controller.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (modem transport, display, logging)
// and contains only value types and the error taxonomy.
//
// # Types
//
//   - [FunctionalMode]: radio operating state (Off, Offline, Normal)
//   - [NetworkEvent]: tagged event reported by the network link
//   - [ProvisioningEvent]: lifecycle event reported by the provisioning agent
//   - [ProvisioningState]: linear provisioning state (Idle, Started, Stopped, Done)
//   - [Geometry]: status display geometry queried once at init
//   - [BootRecord]: persisted per-boot bookkeeping
//
// # Design Principles
//
// Domain values are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
