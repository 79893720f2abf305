package mq_test

import (
	"context"
	"fmt"

	"github.com/adamzdara/Sample-Codes/core/mq"
)

func ExampleCompositeQueue() {
	orders := mq.NewMemoryQueue(mq.WithName("orders"))
	billing := mq.NewMemoryQueue(mq.WithName("billing"))
	defer orders.Close()
	defer billing.Close()

	composite := mq.NewCompositeQueue()
	defer composite.Close()

	_ = composite.AddChild(orders)

	obs, _ := composite.Subscribe("invoice.paid", func(_ context.Context, msg mq.Message) error {
		fmt.Println("received:", msg.Payload)
		return nil
	})

	// Children attached later reach existing observers.
	_ = composite.AddChild(billing)

	ctx := context.Background()
	_ = orders.Publish(ctx, "invoice.paid", "from orders")
	_ = billing.Publish(ctx, "invoice.paid", "from billing")

	composite.Unsubscribe(obs)
	_ = orders.Publish(ctx, "invoice.paid", "dropped")

	// Output:
	// received: from orders
	// received: from billing
}
