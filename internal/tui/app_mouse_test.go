package tui

import (
	"testing"

	"github.com/theirongolddev/revdash/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := len(components.Tabs[i].Name) + 2 // horizontal padding in tab renderer
			x := pos + w/2                        // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func TestMouseClickSwitchesTab(t *testing.T) {
	a := loadedApp(t)

	// Midpoint of the third tab on the tab row
	x := len(components.Tabs[0].Name) + 2 + 1 + len(components.Tabs[1].Name) + 2 + 1 + 3
	m, _ := a.Update(tea.MouseMsg{X: x, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	a = m.(App)
	if a.activeTab != tabWithout {
		t.Fatalf("activeTab = %d, want %d", a.activeTab, tabWithout)
	}

	// Clicks below the header do nothing
	m, _ = a.Update(tea.MouseMsg{X: 2, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if m.(App).activeTab != tabWithout {
		t.Error("click outside the tab row changed tabs")
	}
}

func TestMouseWheelScrollsContent(t *testing.T) {
	a := loadedApp(t)
	a = press(t, a, keyMsg("w"))

	m, _ := a.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	a = m.(App)
	if a.scroll == 0 && a.maxScroll() > 0 {
		t.Error("wheel down did not scroll")
	}
	for i := 0; i < 100; i++ {
		m, _ = a.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
		a = m.(App)
	}
	if a.scroll != 0 {
		t.Errorf("scroll = %d after scrolling up, want 0", a.scroll)
	}
}
