// Package role holds the static, read-only per-role configuration: theme, layout and navigation menu.
package role

import "strings"

type Role string

// Roles
const (
	Admin   Role = "administrador"
	Teacher Role = "profesor"
	Student Role = "estudiante"
)

// All lists the known roles, highest priority first.
var All = []Role{Admin, Teacher, Student}

var names = map[Role]string{
	Admin:   "Administrador",
	Teacher: "Profesor",
	Student: "Estudiante",
}

// Parse maps user input (eg. "Profesor ", "admin") to a Role.
func Parse(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "administrador", "admin", "administrator":
		return Admin, true
	case "profesor", "teacher":
		return Teacher, true
	case "estudiante", "student":
		return Student, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := names[r]
	return ok
}

func (r Role) Name() string {
	if n, ok := names[r]; ok {
		return n
	}
	return string(r)
}

func (r Role) String() string { return string(r) }

// Theme is a named color palette (hex strings).
type Theme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Sidebar    string `json:"sidebar"`
	Text       string `json:"text"`
	Danger     string `json:"danger"`
	Success    string `json:"success"`
}

// Layout holds sidebar sizes (in terminal columns) and feature flags.
type Layout struct {
	SidebarWidth          int  `json:"sidebarWidth"`
	SidebarCollapsedWidth int  `json:"sidebarCollapsedWidth"`
	ShowSearch            bool `json:"showSearch"`
	ShowNotifications     bool `json:"showNotifications"`
	ShowQuickActions      bool `json:"showQuickActions"`
}

type Config struct {
	Role   Role   `json:"role"`
	Theme  Theme  `json:"theme"`
	Layout Layout `json:"layout"`
	Menu   Menu   `json:"menu"`
}

// Lookup returns the configuration of r. Unknown roles are reported with ok == false.
func Lookup(r Role) (Config, bool) {
	cfg, ok := configs[r]
	if !ok {
		return Config{}, false
	}
	return cfg.clone(), true
}

// ConfigFor returns the configuration of r, falling back to the administrator configuration.
func ConfigFor(r Role) Config {
	if cfg, ok := Lookup(r); ok {
		return cfg
	}
	cfg, _ := Lookup(Admin)
	return cfg
}

var routePrefixes = map[Role]string{
	Admin:   "/admin",
	Teacher: "/profesor",
	Student: "/estudiante",
}

// RoutePrefix is the root of r's routes, eg. "/admin".
func RoutePrefix(r Role) string {
	return routePrefixes[ConfigFor(r).Role]
}

// DashboardPath is the route a user of role r lands on after login.
func DashboardPath(r Role) string {
	return RoutePrefix(r) + "/dashboard"
}

func (c Config) clone() Config {
	c.Menu = c.Menu.clone()
	return c
}

var configs = map[Role]Config{
	Admin: {
		Role: Admin,
		Theme: Theme{
			Primary:    "#2c3e50",
			Secondary:  "#18bc9c",
			Accent:     "#f39c12",
			Background: "#ecf0f1",
			Sidebar:    "#1a252f",
			Text:       "#ffffff",
			Danger:     "#e74c3c",
			Success:    "#18bc9c",
		},
		Layout: Layout{
			SidebarWidth:          30,
			SidebarCollapsedWidth: 4,
			ShowSearch:            true,
			ShowNotifications:     true,
			ShowQuickActions:      true,
		},
		Menu: adminMenu,
	},
	Teacher: {
		Role: Teacher,
		Theme: Theme{
			Primary:    "#1cc88a",
			Secondary:  "#36b9cc",
			Accent:     "#f6c23e",
			Background: "#f8f9fc",
			Sidebar:    "#13855c",
			Text:       "#ffffff",
			Danger:     "#e74a3b",
			Success:    "#1cc88a",
		},
		Layout: Layout{
			SidebarWidth:          28,
			SidebarCollapsedWidth: 4,
			ShowSearch:            true,
			ShowNotifications:     true,
			ShowQuickActions:      false,
		},
		Menu: teacherMenu,
	},
	Student: {
		Role: Student,
		Theme: Theme{
			Primary:    "#4e73df",
			Secondary:  "#858796",
			Accent:     "#36b9cc",
			Background: "#f8f9fc",
			Sidebar:    "#224abe",
			Text:       "#ffffff",
			Danger:     "#e74a3b",
			Success:    "#1cc88a",
		},
		Layout: Layout{
			SidebarWidth:          26,
			SidebarCollapsedWidth: 4,
			ShowSearch:            false,
			ShowNotifications:     true,
			ShowQuickActions:      false,
		},
		Menu: studentMenu,
	},
}
