/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing behavior graphs.

It allows developers to declare states, transitions and actions with a fluent builder
instead of writing XML or YAML documents. The builder renders the same document the
loaders read, so a built graph goes through exactly the same validation.

Example usage:

	b := dsl.New("Traveler")

	b.State("Home").Initial().
		Action("StartDay").Model("morning")
	b.State("Work").
		Action("EndShift").Restrict("ReturnFromWork")
	b.State("Hospital")

	b.Transition("Commute", "Home", "Work")
	b.Transition("ReturnFromWork", "Work", "Home")
	b.Transition("Accident", "Work", "Hospital").Contingent()

	g, err := b.Build(registry.NewDefault(catalog))
*/
package dsl
