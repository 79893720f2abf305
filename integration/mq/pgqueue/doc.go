// Package pgqueue adapts PostgreSQL LISTEN/NOTIFY to the mq.Queue interface so
// a database can be attached to an mq.CompositeQueue as a child.
//
// Every message is sent as an mq envelope on a single channel (mq_messages by
// default) and routed to observers by its identifier. Envelopes larger than
// MaxPayloadSize are rejected with ErrPayloadTooLarge.
//
//	q, err := pgqueue.New(pool)
//	if err != nil {
//		return err
//	}
//	go q.Run(ctx)
//	composite.AddChild(q)
//
// Publishing inside a transaction defers delivery until commit:
//
//	tx, _ := pool.Begin(ctx)
//	_ = q.Publish(pg.WithTx(ctx, tx), "invoice.paid", invoice)
//	_ = tx.Commit(ctx)
package pgqueue
