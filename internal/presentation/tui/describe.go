package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Describe summarizes a definition as markdown.
func Describe(def *domain.Definition) string {
	var sb strings.Builder

	title := def.Name
	if title == "" {
		title = "(unnamed machine)"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if def.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", strings.TrimSpace(def.Description))
	}

	fmt.Fprintf(&sb, "- **Initial state:** `%s`\n", def.Initial)
	fmt.Fprintf(&sb, "- **Accepting states:** %s\n", codeList(def.Accepting))
	fmt.Fprintf(&sb, "- **States:** %s\n", codeList(def.States))
	fmt.Fprintf(&sb, "- **Tape symbols:** %s\n", codeList(def.Symbols))
	fmt.Fprintf(&sb, "- **Blank:** `%s`\n", def.Blank)
	fmt.Fprintf(&sb, "- **Input symbols:** %s\n\n", codeList(def.InputSymbols))

	fmt.Fprintf(&sb, "## Transitions (%d)\n\n", len(def.Transitions))
	if len(def.Transitions) == 0 {
		sb.WriteString("_Empty table: every run halts on its first step._\n")
		return sb.String()
	}
	sb.WriteString("| State | Read | Next | Write | Move |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, t := range def.Transitions {
		fmt.Fprintf(&sb, "| `%s` | `%s` | `%s` | `%s` | %s |\n", t.From, t.Read, t.To, t.Write, t.Move)
	}
	return sb.String()
}

func codeList[T ~string](items []T) string {
	if len(items) == 0 {
		return "_none_"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = "`" + string(it) + "`"
	}
	return strings.Join(parts, ", ")
}
