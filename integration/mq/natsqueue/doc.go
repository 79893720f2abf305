// Package natsqueue adapts core NATS subjects to the mq.Queue interface so a
// NATS connection can be attached to an mq.CompositeQueue as a child.
//
// Every Subscribe creates its own NATS subscription on "<prefix>.<identifier>"
// and every Unsubscribe drops it. Messages travel as the JSON envelope produced
// by mq.Marshal. Handlers run on the NATS client's delivery goroutine with a
// context that Close cancels.
//
//	conn, err := natsqueue.Connect(cfg, log)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	q, _ := natsqueue.New(conn, natsqueue.WithSubjectPrefix(cfg.SubjectPrefix))
//	composite.AddChild(q)
package natsqueue
