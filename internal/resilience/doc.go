// Package resilience groups the fault tolerance helpers used around outbound calls:
// completion providers, trend feeds, source article fetches and the usage database.
//
//   - circuitbreaker: gobreaker presets per dependency, a typed Run helper and a
//     guarded *sql.DB
//   - retry: exponential backoff with jitter and retryable-error classification
//
// Typical use:
//
//	cb := circuitbreaker.New(circuitbreaker.CompletionAPIConfig("openai"))
//	err := retry.WithBackoff(ctx, retry.CompletionConfig(2), func() error {
//	    text, err := circuitbreaker.Run(cb, func() (string, error) {
//	        return client.Complete(ctx, prompt)
//	    })
//	    ...
//	})
package resilience
