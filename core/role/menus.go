package role

// Item is a single navigation entry.
type Item struct {
	Label       string `json:"label"`
	Path        string `json:"path"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

// Section is a named, ordered group of items.
type Section struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Menu is an ordered sequence of sections.
type Menu []Section

// SectionNames returns the section names in menu order.
func (m Menu) SectionNames() []string {
	names := make([]string, 0, len(m))
	for _, s := range m {
		names = append(names, s.Name)
	}
	return names
}

func (m Menu) HasSection(name string) bool {
	for _, s := range m {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Find returns the item routed at path.
func (m Menu) Find(path string) (Item, bool) {
	for _, s := range m {
		for _, it := range s.Items {
			if it.Path == path {
				return it, true
			}
		}
	}
	return Item{}, false
}

func (m Menu) clone() Menu {
	cp := make(Menu, len(m))
	for i, s := range m {
		cp[i] = Section{Name: s.Name, Items: append([]Item(nil), s.Items...)}
	}
	return cp
}

var adminMenu = Menu{
	{
		Name: "Principal",
		Items: []Item{
			{Label: "Dashboard", Path: "/admin/dashboard", Icon: "◆", Description: "Resumen general de la orquesta"},
		},
	},
	{
		Name: "Personas",
		Items: []Item{
			{Label: "Estudiantes", Path: "/admin/estudiantes", Icon: "♪", Description: "Gestión de estudiantes"},
			{Label: "Profesores", Path: "/admin/profesores", Icon: "♫", Description: "Gestión de profesores"},
			{Label: "Asignaciones", Path: "/admin/asignaciones", Icon: "⇄", Description: "Profesor ↔ estudiante"},
		},
	},
	{
		Name: "Inventario",
		Items: []Item{
			{Label: "Instrumentos", Path: "/admin/instrumentos", Icon: "♬", Description: "Catálogo de instrumentos"},
			{Label: "Préstamos", Path: "/admin/prestamos", Icon: "↻", Description: "Préstamos de instrumentos"},
		},
	},
	{
		Name: "Académico",
		Items: []Item{
			{Label: "Evaluaciones", Path: "/admin/evaluaciones", Icon: "✎"},
		},
	},
	{
		Name: "Sistema",
		Items: []Item{
			{Label: "Tokens de registro", Path: "/admin/tokens", Icon: "⚿", Description: "Códigos para auto-registro"},
		},
	},
}

var teacherMenu = Menu{
	{
		Name: "Principal",
		Items: []Item{
			{Label: "Dashboard", Path: "/profesor/dashboard", Icon: "◆"},
			{Label: "Mi horario", Path: "/profesor/horario", Icon: "◷"},
		},
	},
	{
		Name: "Mis estudiantes",
		Items: []Item{
			{Label: "Estudiantes", Path: "/profesor/estudiantes", Icon: "♪", Description: "Estudiantes asignados"},
			{Label: "Asistencias", Path: "/profesor/asistencias", Icon: "✓"},
			{Label: "Evaluaciones", Path: "/profesor/evaluaciones", Icon: "✎"},
			{Label: "Progreso", Path: "/profesor/progreso", Icon: "↗"},
		},
	},
	{
		Name: "Cuenta",
		Items: []Item{
			{Label: "Mi perfil", Path: "/profesor/perfil", Icon: "☺"},
		},
	},
}

var studentMenu = Menu{
	{
		Name: "Principal",
		Items: []Item{
			{Label: "Dashboard", Path: "/estudiante/dashboard", Icon: "◆"},
			{Label: "Mi horario", Path: "/estudiante/horario", Icon: "◷"},
		},
	},
	{
		Name: "Música",
		Items: []Item{
			{Label: "Repertorio", Path: "/estudiante/repertorio", Icon: "♫", Description: "Obras en estudio"},
			{Label: "Mis préstamos", Path: "/estudiante/prestamos", Icon: "↻"},
		},
	},
	{
		Name: "Cuenta",
		Items: []Item{
			{Label: "Mi perfil", Path: "/estudiante/perfil", Icon: "☺"},
		},
	},
}
