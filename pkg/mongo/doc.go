// Package mongo manages the lifecycle of the single shared MongoDB connection
// used by the listings application.
//
// The package owns four concerns that every database-touching request in the
// application depends on:
//
//   - Manager guarantees at most one live connection per process. Concurrent
//     callers that find the connection down are coalesced onto a single retried
//     connect attempt sequence; state transitions are serialized and observable
//     through non-blocking Status snapshots.
//   - Classify maps any raw failure into a closed set of kinds (unreachable,
//     auth failed, timeout, unknown) with a recoverability flag and a suggested
//     HTTP status code, so callers can decide whether to retry, degrade, or
//     fail hard.
//   - Checker probes an established connection on demand and on a timer,
//     forcing a reconnect when the probe fails.
//   - Guard wraps a unit of work so it never runs without a connection and
//     never hangs its caller: acquisition is bounded by a timeout, every
//     failure is normalized before it crosses the guard boundary, and a
//     finalization step always runs, releasing the connection when the
//     per-call policy is active.
//
// Configuration is environment-driven:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	mgr := mongo.NewManager(cfg, mongo.WithLogger(log))
//	defer mgr.Close(context.Background())
//
//	guard := mongo.NewGuard(mgr, mongo.WithGuardPolicy(cfg.GuardPolicy))
//	err := guard.Do(ctx, func(ctx context.Context, conn mongo.Conn) error {
//		return conn.Database(cfg.Database).Collection("listings").FindOne(ctx, filter).Err()
//	})
//
// Errors are compatible with errors.Is and errors.As: connection exhaustion
// returns *ConnectError, guarded work returns *Failure, and both carry the
// classification produced by Classify.
package mongo
