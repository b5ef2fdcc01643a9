package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/dustin/go-humanize"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.notice != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderNotice())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderTabContent(), m.renderFooter())
}

func (m Model) renderHeader() string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		name := fmt.Sprintf("%d %s", int(i)+1, tabNames[i])
		if i == m.activeTab {
			tabs = append(tabs, styleActiveTab.Render(name))
		} else {
			tabs = append(tabs, styleInactiveTab.Render(name))
		}
	}
	return styleHeader.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderTabContent() string {
	var content string
	switch m.activeTab {
	case TabDashboard:
		content = m.renderDashboard()
	case TabSystem:
		content = m.renderSystem()
	case TabDisks:
		content = m.renderDisks()
	case TabMaintenance:
		content = m.renderMaintenance()
	}
	return styleContent.Width(m.width).Render(content)
}

func (m Model) renderFooter() string {
	status := m.help.View(m.keys)
	if m.busy {
		status += "  " + lipgloss.NewStyle().Foreground(colorWarning).Render("running "+m.running+"...")
	}
	if !m.lastUpdated.IsZero() {
		status += fmt.Sprintf("  Updated: %s", m.lastUpdated.Format("15:04:05"))
	}
	if m.pollErr != nil {
		status += "  " + styleError.Render("poll: "+m.pollErr.Error())
	}
	return styleFooter.Width(m.width).Render(status)
}

func (m Model) renderNotice() string {
	border := colorSuccess
	if m.notice.err {
		border = colorDanger
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render(m.notice.title),
		"",
		m.notice.body,
		"",
		lipgloss.NewStyle().Foreground(colorMuted).Render("enter/esc to dismiss"),
	)
	return styleNotice.BorderForeground(border).Render(body)
}

func row(label, value string) string {
	return styleLabel.Render(label) + value
}

func (m Model) renderUsage(label string, percent float64, bar string, series []float64) string {
	value := lipgloss.NewStyle().Foreground(usageColor(percent)).Render(fmt.Sprintf("%5.1f%%", percent))
	spark := lipgloss.NewStyle().Foreground(colorSecondary).Render(renderSparkline(series, m.historySize))
	return lipgloss.JoinVertical(lipgloss.Left,
		row(label, bar+" "+value),
		row("", spark),
	)
}

func (m Model) renderDashboard() string {
	var sections []string
	if m.hasSample {
		s := m.snapshot.Sample
		sections = append(sections,
			styleTitle.Render("Utilization"),
			m.renderUsage("CPU", s.CPUPercent, m.cpuBar.ViewAs(s.CPUPercent/100), m.snapshot.CPUHistory),
			m.renderUsage("Memory", s.MemoryPercent, m.memBar.ViewAs(s.MemoryPercent/100), m.snapshot.MemoryHistory),
		)
	} else {
		sections = append(sections, styleTitle.Render("Utilization"), "Waiting for the first sample...")
	}

	sections = append(sections, "", styleTitle.Render("System"))
	if m.host != nil {
		sections = append(sections,
			row("Hostname", m.host.Hostname),
			row("OS", strings.TrimSpace(m.host.System+" "+m.host.Version)),
			row("Uptime", m.host.UptimeString()),
		)
	}

	sections = append(sections, "", styleTitle.Render("Disks"))
	for _, d := range m.disks {
		sections = append(sections, row(d.Mountpoint,
			fmt.Sprintf("%s / %s (%.1f%%)", humanize.IBytes(d.Used), humanize.IBytes(d.Total), d.Percent)))
	}
	if m.fetchErr != nil {
		sections = append(sections, "", styleError.Render(m.fetchErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSystem() string {
	sections := []string{styleTitle.Render("Host")}
	if h := m.host; h != nil {
		sections = append(sections,
			row("System", h.System),
			row("Hostname", h.Hostname),
			row("Release", h.Release),
			row("Version", h.Version),
			row("Machine", h.Machine),
			row("Processor", h.Processor),
			row("Boot time", h.BootTimeString()),
			row("Uptime", h.UptimeString()),
		)
	} else {
		sections = append(sections, "Loading...")
	}

	sections = append(sections, "", styleTitle.Render("CPU"))
	if c := m.cpu; c != nil {
		sections = append(sections,
			row("Physical cores", fmt.Sprint(c.PhysicalCores)),
			row("Logical cores", fmt.Sprint(c.LogicalCores)),
			row("Max frequency", c.MaxFreq.String()),
			row("Current frequency", c.CurrentFreq.String()),
			row("Usage", fmt.Sprintf("%.1f%%", c.Percent)),
		)
	} else {
		sections = append(sections, "Loading...")
	}
	if m.hasSample {
		s := m.snapshot.Sample
		sections = append(sections, "", styleTitle.Render("Memory"), row("Usage", fmt.Sprintf("%.1f%%", s.MemoryPercent)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderDisks() string {
	if len(m.disks) == 0 {
		return "No accessible partitions."
	}
	header := fmt.Sprintf("%-20s %-20s %-8s %10s %10s %10s  %s", "DEVICE", "MOUNTPOINT", "TYPE", "TOTAL", "USED", "FREE", "USE%")
	lines := []string{styleTitle.Render(header)}
	for _, d := range m.disks {
		lines = append(lines, diskLine(d))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func diskLine(d *models.DiskPartitionInfo) string {
	bar := renderBar(d.Percent, 10)
	return fmt.Sprintf("%-20s %-20s %-8s %10s %10s %10s  %s %5.1f%%",
		truncate(d.Device, 20), truncate(d.Mountpoint, 20), truncate(d.Fstype, 8),
		humanize.IBytes(d.Total), humanize.IBytes(d.Used), humanize.IBytes(d.Free),
		bar, d.Percent)
}

func renderBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(width, filled))
	return lipgloss.NewStyle().Foreground(usageColor(percent)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorMuted).Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) renderMaintenance() string {
	buttons := []string{
		m.renderTrigger("u", m.title(maintenance.OperationUpdate)),
		m.renderTrigger("c", m.title(maintenance.OperationCleanup)),
	}
	status := "Idle"
	if m.busy {
		status = fmt.Sprintf("Running %s...", m.title(m.running))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		"",
		row("Status", status),
		"",
		styleLog.Render(m.log.View()),
	)
}

func (m Model) renderTrigger(key, title string) string {
	label := fmt.Sprintf("[%s] %s", key, title)
	if m.busy {
		return styleButtonOff.Render(label)
	}
	return styleButton.Render(label)
}

func (m Model) title(operation string) string {
	if t, ok := m.titles[operation]; ok {
		return t
	}
	return operation
}
