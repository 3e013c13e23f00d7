/*
Package ports defines the driven ports (interfaces) of the Turing machine engine.

These interfaces decouple the core logic from external implementations, allowing
machine definitions to come from various sources and the engine to be driven
by different front ends.

# Key Interfaces

  - DefinitionLoader: Retrieves machine definitions by name (e.g., from a directory or memory).
  - DefinitionStore: A loader that can also save and delete definitions (e.g., Redis).
  - Machine: The run contract (Initialize, Step, Accepted, inspection) consumed by drivers.
*/
package ports
