// Package redisqueue adapts Redis Pub/Sub to the mq.Queue interface so a Redis
// server can be attached to an mq.CompositeQueue as a child.
//
// Identifiers map to channels "<prefix><identifier>" (prefix "mq:" by default).
// Subscriptions are reference counted per identifier on a single shared PubSub
// connection. Run must be running for observers to receive messages:
//
//	q, err := redisqueue.New(client)
//	if err != nil {
//		return err
//	}
//	defer q.Close()
//
//	go q.Run(ctx)
//	composite.AddChild(q)
//
// A Redis error during Subscribe is returned to the caller, which lets the
// composite roll back the surrounding operation.
package redisqueue
