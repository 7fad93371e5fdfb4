// Package exec implements the command runner: it turns one command
// descriptor plus a parameter set into a database round-trip and returns a
// typed result.
//
// The runner owns connection lifecycle for a single attempt and guarantees
// cleanup on every exit path: the driver-level parameter collection is
// cleared exactly once per attempt, and the connection is closed before
// return on the non-reader paths. On the reader path the returned rows own
// the connection and close it with the cursor.
//
// The runner has no retry awareness. Callers that want transient-fault
// recovery wrap each runner call in internal/retry:
//
//	executor.Execute(ctx, func(ctx context.Context) error {
//	    n, err := runner.NonQuery(ctx, desc, params)
//	    ...
//	    return err
//	})
//
// Driver errors propagate unwrapped so the retry classifier can inspect
// the original type and message.
package exec
