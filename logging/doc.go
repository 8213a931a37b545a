// Package logging provides a tiny abstraction over slog so the pipeline can
// depend on a minimal interface (Logger) while allowing hosts to plug any
// structured logger. It also offers a richer CareMeshLogger with contextual
// helpers (component, interaction identifiers) and a domain helper for agent
// invocation records.
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
