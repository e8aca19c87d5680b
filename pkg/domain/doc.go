/*
Package domain contains the behavior-graph model shared by every simulated agent of a class.

A Graph is assembled once from configuration and is read-only afterwards. Agents
never live inside it: each one carries its own Cursor pointing at its current
State, and advances it with the Transition an Action chose.

# Key Entities

  - State: a named node; at most one per graph is the initial state.
  - Transition: a directed, named edge between two states, optionally contingent.
  - Action: a decision point bound to a state, which delegates the choice of
    transition to a ChoiceModel.
  - Graph: the owning aggregate, plus the non-fatal Warnings raised while building it.
*/
package domain
