/*
Package domain contains the core domain models of the Turing machine engine.

It defines the static description of a machine (symbols, control states, the
transition table) and the observable shape of a run (status, snapshots,
lifecycle events). This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Definition: The immutable configuration of a machine (states, alphabet, blank, table).
  - Transition: A single rule (state, symbol) -> (next state, symbol to write, direction).
  - Direction: The two-valued head movement (Left, Right).
  - Snapshot: A value copy of a run (head, state, status, explicit tape cells).
*/
package domain
