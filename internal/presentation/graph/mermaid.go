package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/metasim/pkg/domain"
)

// GraphOverlay contains agent history to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a graph description.
// It applies semantic styling:
// - Initial: ((Circle))
// - Terminal (no outgoing transitions): ([Stadium])
// - Default: [Rectangle]
// Contingent transitions are dotted. Overlay styles (Visited/Current) are
// applied if provided.
func GenerateMermaid(desc domain.Description, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	outgoing := make(map[string]int)
	for _, t := range desc.Transitions {
		outgoing[t.From]++
	}

	for _, s := range desc.States {
		safeID := sanitizeMermaidID(s.Name)

		opener, closer := "[", "]"
		switch {
		case s.Name == desc.InitialState:
			opener, closer = "((", "))"
		case outgoing[s.Name] == 0:
			opener, closer = "([", "])"
		}

		label := escapeLabel(s.Name)
		if len(s.Actions) > 0 {
			actions := make([]string, 0, len(s.Actions))
			for _, a := range s.Actions {
				actions = append(actions, escapeLabel(a.Name))
			}
			label = fmt.Sprintf("%s <br/> %s", label, strings.Join(actions, ", "))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	for _, t := range desc.Transitions {
		name := escapeLabel(t.Name)
		arrow := fmt.Sprintf("-- \"%s\" -->", name)
		if t.Contingent {
			arrow = fmt.Sprintf("-. \"%s\" .->", name)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(t.From), arrow, sanitizeMermaidID(t.To)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(name)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
