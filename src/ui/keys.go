package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap implements help.KeyMap.
type keyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	Tab4       key.Binding
	Update     key.Binding
	Cleanup    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Dismiss    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Update, k.Cleanup, k.ScrollDown, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.Update, k.Cleanup, k.ScrollUp, k.ScrollDown},
		{k.Dismiss, k.Quit},
	}
}

// setTriggersEnabled greys out the maintenance keys while an operation runs.
func (k *keyMap) setTriggersEnabled(enabled bool) {
	k.Update.SetEnabled(enabled)
	k.Cleanup.SetEnabled(enabled)
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
		Tab1:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tab2:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "system")),
		Tab3:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "disks")),
		Tab4:       key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "maintenance")),
		Update:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update")),
		Cleanup:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cleanup")),
		ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "scroll log up")),
		ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/dn", "scroll log down")),
		Dismiss:    key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
	}
}
