package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Enter         key.Binding
	Back          key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding
	ToggleSidebar key.Binding
	Create        key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Actions       key.Binding
	Filter        key.Binding
	ClearFilters  key.Binding
	Reload        key.Binding
	Submit        key.Binding
	Yes           key.Binding
	No            key.Binding
	Dismiss       key.Binding
	Logout        key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

var keys = keyMap{
	Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "arriba")),
	Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "abajo")),
	Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "abrir")),
	Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "volver")),
	Tab:           key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cambiar panel")),
	ShiftTab:      key.NewBinding(key.WithKeys("shift+tab")),
	ToggleSidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "barra lateral")),
	Create:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nuevo")),
	Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editar")),
	Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "eliminar")),
	Actions:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "acciones")),
	Filter:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filtrar")),
	ClearFilters:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "limpiar filtros")),
	Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	Submit:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "guardar")),
	Yes:           key.NewBinding(key.WithKeys("y", "s", "enter"), key.WithHelp("s", "confirmar")),
	No:            key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancelar")),
	Dismiss:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cerrar aviso")),
	Logout:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "cerrar sesión")),
	Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "salir")),
	ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
}
