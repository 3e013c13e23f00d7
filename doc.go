/*
Package turing is a deterministic single-tape Turing machine engine.

A machine is described by a Definition: its states, tape symbols, blank
symbol, input alphabet, initial and accepting states, and a transition table
mapping (state, symbol) to (next state, symbol to write, head movement).
Compiling a definition yields a Program, an immutable table shared by any
number of runs. Each run is a Machine with its own sparse, unbounded tape.

# Execution model

A run is initialized with an input placed at positions 0..n-1, then stepped.
Every step performs exactly one table lookup for the current state and the
symbol under the head. When a rule exists the machine writes, changes state
and moves; when none exists the machine halts. An undefined transition is
therefore the halting mechanism, never an error. Once halted, Accepted
reports whether the final state is accepting.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/turing"
		"github.com/aretw0/turing/pkg/domain"
	)

	func main() {
		prog, err := turing.LoadFile("examples/machines/binary-increment.yaml")
		if err != nil {
			log.Fatal(err)
		}

		m := prog.NewMachine()
		if err := m.Initialize(domain.Symbols("101")); err != nil {
			log.Fatal(err)
		}
		for !m.Halted() {
			if err := m.Step(); err != nil {
				log.Fatal(err)
			}
		}
		ok, _ := m.Accepted()
		fmt.Println(m.Tape().Content(), ok) // 110 true
	}

Machine files can also be served from a directory (pkg/adapters/file), from
memory (pkg/adapters/memory) or from a Redis catalog (pkg/adapters/redis).
The pkg/runner package is the interactive driver used by the turing CLI.
*/
package turing
