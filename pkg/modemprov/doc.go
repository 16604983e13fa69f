// Package modemprov provides an embeddable connectivity and provisioning
// lifecycle controller for cellular IoT devices.
//
// A Device brings up the status display and the modem, waits for network
// registration, runs the provisioning agent and then either hands off to the
// operational phase or restarts when provisioning asks for it.
//
// # Basic Usage
//
//	cfg := modemprov.Config{
//	    StateDir:   "/var/lib/modemprov",
//	    ServiceURL: "https://devices.example.com",
//	}
//
//	dev, err := modemprov.New(cfg,
//	    modemprov.WithNetworkLink(link),
//	    modemprov.WithProvisioningAgent(agent),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := dev.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Collaborators
//
// Every external collaborator is an interface and can be replaced with an
// option: [WithStatusSink], [WithNetworkLink], [WithProvisioningAgent],
// [WithTimeSource], [WithRestarter], [WithOperationalPhase]. Without options
// New wires the simulated link and agent, a framebuffer display that
// discards its output, an exec restarter and the cloud heartbeat phase.
//
// # Blocking
//
// Run waits without timeout for network registration and for the end of
// provisioning. Cancel the context to stop it.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// phase changes. Events are delivered synchronously; return quickly.
package modemprov
