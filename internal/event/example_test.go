package event_test

import (
	"errors"
	"fmt"

	"github.com/dshills/shotgun/internal/event"
)

func Example() {
	bus := event.NewBus()

	_, _ = bus.ListenKey("user/created", "greeter", func(args ...any) error {
		fmt.Println("welcome,", args[0])
		return nil
	})

	invoked, _ := bus.Fire("user/created", "ada")
	fmt.Println("invoked:", invoked)

	invoked, _ = bus.Fire("user/deleted")
	fmt.Println("invoked:", invoked)

	// Output:
	// welcome, ada
	// invoked: true
	// invoked: false
}

func Example_recursive() {
	bus := event.NewBus()

	_, _ = bus.Listen("ui/button", func(...any) error {
		fmt.Println("button")
		return nil
	})
	_, _ = bus.Listen("ui/button/clicked", func(...any) error {
		fmt.Println("clicked")
		return nil
	})
	_, _ = bus.Listen("net", func(...any) error {
		fmt.Println("net")
		return nil
	})

	_, _ = bus.Fire("ui/*")

	// Output:
	// button
	// clicked
}

func ExampleBus_Attempt() {
	bus := event.NewBus()

	_, _ = bus.Listen(bus.Internal(event.EventTryError), func(args ...any) error {
		fmt.Println("caught:", args[0])
		return nil
	})

	bus.Attempt(func() error {
		return errors.New("disk full")
	})
	fmt.Println("attempt returned")

	// Output:
	// caught: disk full
	// attempt returned
}

func ExampleBus_RegisterInternal() {
	bus := event.NewBus(event.WithInternalMarker("system:"))
	noop := func(...any) error { return nil }

	_, err := bus.Listen("system:app/ready", noop)
	fmt.Println(errors.Is(err, event.ErrInternalNotRegistered))

	bus.RegisterInternal("app/ready")
	_, err = bus.Listen("system:app/ready", noop)
	fmt.Println(err)

	// Output:
	// true
	// <nil>
}
