// Package wsqueue adapts a websocket feed to the mq.Queue interface so a
// remote feed can be attached to an mq.CompositeQueue as a child.
//
// Frames carry the JSON envelope produced by mq.Marshal. Observers are local;
// Run reads frames and routes them by identifier.
//
//	q, err := wsqueue.Dial(ctx, "wss://feed.example.com/events")
//	if err != nil {
//		return err
//	}
//	defer q.Close()
//
//	go q.Run(ctx)
//	composite.AddChild(q)
package wsqueue
