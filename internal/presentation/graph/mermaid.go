package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains dynamic run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
}

type edge struct {
	from, to domain.State
}

// GenerateMermaid produces a Mermaid flowchart of the transition table.
// It applies semantic styling:
// - Initial: ((Circle))
// - Accepting: (((Double circle)))
// - Default: [Rectangle]
// Rules sharing a source and target are drawn as one edge labelled "read/write move".
func GenerateMermaid(def *domain.Definition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range statesOf(def) {
		opener, closer := "[", "]"
		switch {
		case def.IsAccepting(s):
			opener, closer = "(((", ")))"
		case s == def.Initial:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(s), opener, escape(string(s)), closer))
	}

	var order []edge
	labels := make(map[edge][]string)
	for _, t := range def.Transitions {
		e := edge{t.From, t.To}
		if _, seen := labels[e]; !seen {
			order = append(order, e)
		}
		labels[e] = append(labels[e], fmt.Sprintf("%s/%s %s", t.Read, t.Write, t.Move))
	}
	for _, e := range order {
		label := escape(strings.Join(labels[e], ", "))
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeMermaidID(e.from), label, sanitizeMermaidID(e.to)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			id := sanitizeMermaidID(s)
			if !visited[id] && id != "" {
				visited[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

// statesOf lists declared states, then any state only mentioned by a rule.
func statesOf(def *domain.Definition) []domain.State {
	var out []domain.State
	seen := make(map[domain.State]bool)
	add := func(s domain.State) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	add(def.Initial)
	for _, s := range def.States {
		add(s)
	}
	for _, t := range def.Transitions {
		add(t.From)
		add(t.To)
	}
	return out
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

func sanitizeMermaidID(s domain.State) string {
	id := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(string(s))
	// Prefixed so that keywords such as "end" stay valid ids.
	return "st_" + id
}
