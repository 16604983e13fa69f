package modemprov_test

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/modemprov/internal/adapters/simagent"
	"github.com/bft-labs/modemprov/internal/adapters/simlink"
	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/pkg/modemprov"
)

type printOperational struct{}

func (printOperational) Run(ctx context.Context) error {
	fmt.Println("operational")
	return nil
}

// ExampleNew runs the device against the simulated modem and provisioning
// client.
func ExampleNew() {
	link := simlink.New(simlink.Config{Script: simlink.DefaultScript(time.Millisecond)}, nil)

	dev, err := modemprov.New(modemprov.Config{TimeSyncInterval: time.Millisecond},
		modemprov.WithNetworkLink(link),
		modemprov.WithProvisioningAgent(simagent.New(simagent.Config{Finish: domain.ProvisioningStop}, nil)),
		modemprov.WithOperationalPhase(printOperational{}),
	)
	if err != nil {
		fmt.Printf("failed to create device: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := dev.Run(ctx); err != nil {
		fmt.Printf("run failed: %v\n", err)
		return
	}
	fmt.Println(dev.Phase())

	// Output:
	// operational
	// Operational
}
