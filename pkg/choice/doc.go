/*
Package choice implements nested and multinomial logit discrete-choice models.

A Tree is an immutable nest structure stored as an arena of nodes. Leaves are
alternatives whose utility comes from a pluggable UtilityFunction; inner nests
carry an elasticity (dissimilarity) coefficient, where 1 reduces that level to
plain multinomial logit.

	tree, err := choice.NewBuilder("mode").
		Alternative("mode", "car", choice.Linear{Intercept: 1}, "").
		Nest("mode", "transit", 0.5).
		Alternative("transit", "bus", choice.Constant(0), "").
		Alternative("transit", "rail", choice.Constant(0.2), "").
		Build()

	ev, err := tree.Evaluate(input)
	ev.Distribution()             // over car / transit
	ev.AlternativeProbabilities() // over car / bus / rail
	ev.ExpectedMaximumUtility()   // root logsum

Tree.Evaluate returns a fresh Evaluation and never mutates the tree, so one
tree can be shared by any number of goroutines. Model wraps a tree with a
cache of its last evaluation for callers that want the Clear/Clone workflow.
*/
package choice
