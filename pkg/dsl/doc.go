/*
Package dsl provides a fluent builder for constructing machine definitions in Go
instead of YAML or JSON files.

Example usage:

	b := dsl.New("binary-increment").Blank("#").Input("0", "1")

	b.State("s").
		On("0").Right("s").
		On("1").Right("s").
		On("#").Left("a")

	b.State("a").
		On("0").Write("1").Right("b").
		On("1").Write("0").Left("c")

	b.State("H").Accepting()

	def, err := b.Build()
	// ... pass def to turing.New(...)

Each rule writes back the symbol it read unless Write is called, and the first
state added is the initial state unless Initial says otherwise.
*/
package dsl
