// Package mocknet provides an in-memory sh2pc.Transport for tests, examples
// and single-process runs.
//
// Every directed link between two roles is a FIFO mailbox. Sends never block;
// receives block until a message arrives or the context is done. Each link
// records its message count, byte count and the size of every message, which
// lets tests assert that a protocol's transcript shape does not depend on
// secret inputs.
//
//	net := mocknet.New()
//	ep1, ep2 := net.Pair()
//	job1, _ := sh2pc.NewJob2PWithContext(ctx, ep1, sh2pc.RoleP1, names)
//	job2, _ := sh2pc.NewJob2PWithContext(ctx, ep2, sh2pc.RoleP2, names)
//	// run both parties in their own goroutines ...
//	stats := net.Stats(sh2pc.RoleID(sh2pc.RoleP1), sh2pc.RoleID(sh2pc.RoleP2))
//
// Mocknet does no encryption, authentication or latency simulation and is not
// meant for production traffic.
package mocknet
