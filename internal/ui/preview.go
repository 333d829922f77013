// Package ui renders command output for terminals.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/payload"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/report"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/theme"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/trigger"
)

// RenderPreview shows what an invocation would send and write without
// doing either.
func RenderPreview(rec model.Record, settings model.Settings, prep trigger.Prepared) string {
	fields := prep.Payload.ClientPayload.Fields()

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		theme.HeaderStyle.Render(rec.Number),
		theme.ArchetypeStyle(string(prep.Archetype)).Render(prep.Archetype.DisplayName()),
	)

	var b strings.Builder
	b.WriteString(row("catalog item", rec.CatalogItem))
	b.WriteString(row("target", settings.DispatchURL()))
	b.WriteString(row("event_type", prep.Payload.EventType))
	b.WriteString(row("variables", fmt.Sprintf("%d collected", len(prep.Variables))))
	b.WriteString(theme.LabelStyle.Render("client_payload fields"))
	b.WriteString(theme.FieldCountStyle(len(fields), payload.MaxFields).
		Render(fmt.Sprintf("%d / %d", len(fields), payload.MaxFields)))

	sections := []string{
		header,
		theme.PanelStyle.Render(b.String()),
		theme.HeaderStyle.Render("client_payload"),
		theme.PanelStyle.Render(renderFields(fields)),
	}

	sections = append(sections,
		theme.HeaderStyle.Render("field policy"),
		theme.PanelStyle.Render(renderPolicy(prep.Policy)),
	)

	if extra, err := prep.Payload.ClientPayload.Extra(); err == nil {
		sections = append(sections,
			theme.HeaderStyle.Render("extra_data"),
			theme.PanelStyle.Render(renderMap(extra)),
		)
	}

	sections = append(sections,
		theme.HeaderStyle.Render("work notes on success"),
		theme.PanelStyle.Render(report.FormatSuccess(prep.Archetype, prep.Variables)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderResult summarizes a finished invocation.
func RenderResult(rec model.Record, res trigger.Result) string {
	var status string
	switch {
	case !res.Dispatched:
		status = theme.OutcomeStyle(false).Render("not dispatched")
	case res.Outcome.Success():
		status = theme.OutcomeStyle(true).Render(fmt.Sprintf("dispatched (%d)", res.Outcome.Status))
	default:
		status = theme.OutcomeStyle(false).Render(fmt.Sprintf("rejected (%d)", res.Outcome.Status))
	}

	var b strings.Builder
	b.WriteString(row("invocation", res.InvocationID))
	b.WriteString(row("archetype", string(res.Archetype)))
	b.WriteString(theme.LabelStyle.Render("result") + status)

	return lipgloss.JoinVertical(lipgloss.Left,
		theme.HeaderStyle.Render(rec.Number),
		theme.PanelStyle.Render(b.String()),
		theme.HeaderStyle.Render("work notes"),
		theme.PanelStyle.Render(res.Note),
	)
}

func renderFields(fields []payload.Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Name == payload.FieldExtraData {
			lines = append(lines, theme.LabelStyle.Render(f.Name)+theme.HelpStyle.Render("see below"))
			continue
		}
		lines = append(lines, theme.LabelStyle.Render(f.Name)+theme.ValueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

func renderPolicy(p payload.Policy) string {
	promoted, folded := p.PromotedNames(), p.FoldedNames()
	if len(promoted) == 0 && len(folded) == 0 {
		return theme.HelpStyle.Render("no policy: common fields only")
	}
	return row("promoted", strings.Join(promoted, ", ")) +
		theme.LabelStyle.Render("folded") + theme.ValueStyle.Render(strings.Join(folded, ", "))
}

func renderMap(m map[string]string) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, k := range names {
		lines = append(lines, theme.LabelStyle.Render(k)+theme.ValueStyle.Render(m[k]))
	}
	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return theme.LabelStyle.Render(label) + theme.ValueStyle.Render(value) + "\n"
}
