/*
Package ports defines the driven ports (interfaces) of the debloat orchestrator.

These interfaces decouple the run orchestrator from external implementations, allowing
it to work with various shells, storage backends and presentation layers.

# Key Interfaces

  - CommandExecutor: Runs one opaque command string and returns a StepResult value.
  - Observer: Receives every state update of a session, in order.
  - Journal: The durable, append-only diagnostic log.
  - CatalogProvider: Supplies the current catalog (static or hot-reloaded).
  - PreferenceStore: Persists per-session preferences.
  - DistributedLocker: Provides distributed locking for concurrent preference access.
*/
package ports
