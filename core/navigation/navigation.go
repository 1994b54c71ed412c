// Package navigation derives the menu, theme and layout of the current role and keeps the
// per-role UI state (collapsed sidebar, open menu sections) in local storage.
package navigation

import (
	"encoding/json"
	"sync"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
)

// storage key prefixes, suffixed with the role
const (
	collapsedKeyPrefix    = "sidebarCollapsed_"
	openSectionsKeyPrefix = "openSections_"
)

// CollapsedKey is the storage key of the sidebar collapsed flag of r.
func CollapsedKey(r role.Role) string { return collapsedKeyPrefix + string(r) }

// OpenSectionsKey is the storage key of the open menu sections of r.
func OpenSectionsKey(r role.Role) string { return openSectionsKeyPrefix + string(r) }

// RoleSource is the current session's role ("" when logged out).
type RoleSource interface {
	Role() role.Role
}

// UIState is the user controlled part of the navigation.
type UIState struct {
	Collapsed    bool
	OpenSections map[string]bool
}

func (st UIState) clone() UIState {
	open := make(map[string]bool, len(st.OpenSections))
	for name := range st.OpenSections {
		open[name] = true
	}
	return UIState{Collapsed: st.Collapsed, OpenSections: open}
}

type Context struct {
	mu      sync.Mutex
	roles   RoleSource
	storage local.Store
	logger  core.Logger
	bus     *events.Bus

	// state of `loaded`, reloaded whenever the effective role changes
	loaded role.Role
	config role.Config
	state  UIState
}

func New(roles RoleSource, storage local.Store, bus *events.Bus, logger core.Logger) *Context {
	return &Context{roles: roles, storage: storage, bus: bus, logger: logger}
}

// Role is the effective role: the session's, or administrador when there is no session
// or its role is unknown.
func (c *Context) Role() role.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
	return c.loaded
}

func (c *Context) Config() role.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
	return role.ConfigFor(c.loaded)
}

func (c *Context) Menu() role.Menu     { return c.Config().Menu }
func (c *Context) Theme() role.Theme   { return c.Config().Theme }
func (c *Context) Layout() role.Layout { return c.Config().Layout }

func (c *Context) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
	return c.state.clone()
}

func (c *Context) Collapsed() bool {
	return c.State().Collapsed
}

// OpenSections returns the open section names, in menu order.
func (c *Context) OpenSections() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
	return c.openList()
}

func (c *Context) IsOpen(section string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
	return c.state.OpenSections[section]
}

// SidebarWidth is the current width, depending on the collapsed flag.
func (c *Context) SidebarWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
	if c.state.Collapsed {
		return c.config.Layout.SidebarCollapsedWidth
	}
	return c.config.Layout.SidebarWidth
}

// ToggleSidebar flips the collapsed flag and persists it. It returns the new value.
func (c *Context) ToggleSidebar() bool {
	c.mu.Lock()
	c.sync()
	c.state.Collapsed = !c.state.Collapsed
	collapsed := c.state.Collapsed
	c.save(CollapsedKey(c.loaded), collapsed)
	c.mu.Unlock()

	c.publish("sidebar")
	return collapsed
}

// ToggleSection opens or closes a menu section and persists the open set.
// Names that are not sections of the current menu are ignored.
func (c *Context) ToggleSection(name string) bool {
	c.mu.Lock()
	c.sync()
	if !c.config.Menu.HasSection(name) {
		c.mu.Unlock()
		return false
	}
	if c.state.OpenSections[name] {
		delete(c.state.OpenSections, name)
	} else {
		c.state.OpenSections[name] = true
	}
	open := c.state.OpenSections[name]
	c.save(OpenSectionsKey(c.loaded), c.openList())
	c.mu.Unlock()

	c.publish("section")
	return open
}

// Reset reloads the state of the current role from local storage.
func (c *Context) Reset() {
	c.mu.Lock()
	c.loaded = ""
	c.sync()
	c.mu.Unlock()
	c.publish("reset")
}

// sync reloads the UI state when the effective role changed. Caller holds c.mu.
func (c *Context) sync() {
	r := effectiveRole(c.roles)
	if r == c.loaded {
		return
	}
	c.loaded = r
	c.config = role.ConfigFor(r)
	c.state = c.load(r)
}

func effectiveRole(roles RoleSource) role.Role {
	if roles == nil {
		return role.Admin
	}
	if r := roles.Role(); r.Valid() {
		return r
	}
	return role.Admin
}

func (c *Context) load(r role.Role) UIState {
	st := UIState{OpenSections: make(map[string]bool)}

	var collapsed bool
	if c.read(CollapsedKey(r), &collapsed) {
		st.Collapsed = collapsed
	}

	var open []string
	if c.read(OpenSectionsKey(r), &open) {
		for _, name := range open {
			if c.config.Menu.HasSection(name) {
				st.OpenSections[name] = true
			}
		}
	} else {
		for _, name := range c.config.Menu.SectionNames() {
			st.OpenSections[name] = true
		}
	}
	return st
}

// read decodes the JSON value under key into v. Missing, unreadable or malformed values
// are reported as absent.
func (c *Context) read(key string, v interface{}) bool {
	raw, ok, err := c.storage.Get(key)
	if err != nil {
		c.logger.Warn("navigation: could not read ui state", err, map[string]interface{}{"key": key})
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		c.logger.Debug("navigation: discarding malformed ui state", map[string]interface{}{"key": key, "value": raw})
		return false
	}
	return true
}

func (c *Context) save(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err == nil {
		err = c.storage.Set(key, string(raw))
	}
	if err != nil {
		c.logger.Error("navigation: could not save ui state", err, map[string]interface{}{"key": key})
	}
}

// caller holds c.mu
func (c *Context) openList() []string {
	open := make([]string, 0, len(c.state.OpenSections))
	for _, name := range c.config.Menu.SectionNames() {
		if c.state.OpenSections[name] {
			open = append(open, name)
		}
	}
	return open
}

func (c *Context) publish(detail string) {
	c.bus.Publish(events.Event{Source: events.Navigation, Detail: detail})
}
