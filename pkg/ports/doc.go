// Package ports defines the driven-side interfaces of the practice engine:
// the lesson service that grades submissions, the optional notification
// capabilities (content changes, satisfied lesson events) and the secondary
// event sink. Adapters (HTTP, redis, in-memory fakes) implement these;
// the engine only ever sees the interfaces.
package ports
