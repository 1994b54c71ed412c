package main

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/tui"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/shell"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/services/api"
)

func (cli *commandLine) menuCmd() *cobra.Command {
	var toggleSections []string
	var toggleSidebar bool
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Muestra el menú del rol actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// without a session the administrator menu is shown
			if _, err := cli.app.requireSession(cmd.Context()); err != nil && err != errNoSession && err != errSessionExpired {
				return err
			}
			nav := cli.app.nav
			for _, name := range toggleSections {
				nav.ToggleSection(name)
			}
			if toggleSidebar {
				nav.ToggleSidebar()
			}

			sidebar := "expandida"
			if nav.Collapsed() {
				sidebar = "colapsada"
			}
			cli.printf("Menú de %s (barra lateral %s, %d columnas)\n", nav.Role().Name(), sidebar, nav.SidebarWidth())
			for _, sec := range nav.Menu() {
				if !nav.IsOpen(sec.Name) {
					cli.printf("▸ %s\n", sec.Name)
					continue
				}
				cli.printf("▾ %s\n", sec.Name)
				for _, it := range sec.Items {
					cli.printf("    %s %-20s %s\n", it.Icon, it.Label, it.Path)
				}
			}

			if sh, ok := shell.Select(cli.app.sessions); ok {
				if admin, ok := sh.(shell.Admin); ok && nav.Layout().ShowQuickActions {
					cli.printf("Accesos rápidos:\n")
					for _, it := range admin.QuickActions {
						cli.printf("    %s %s\n", it.Icon, it.Label)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&toggleSections, "toggle", nil, "abre o cierra una sección (repetible)")
	cmd.Flags().BoolVar(&toggleSidebar, "toggle-sidebar", false, "colapsa o expande la barra lateral")
	return cmd
}

func (cli *commandLine) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <vista>",
		Short: "Muestra una vista personal del profesor o estudiante (dashboard, horario, perfil...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cli.app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			r := sess.User.Role
			if r == role.Admin {
				return errors.New("las vistas personales son para profesores y estudiantes; usa `orquesta list`")
			}

			var data interface{}
			if err = cli.app.client.Self(cmd.Context(), r, args[0], &data); err != nil {
				if errors.Cause(err) == api.ErrUnknownView {
					return errors.Errorf("vista desconocida %q: usa %v", args[0], api.SelfViews(r))
				}
				return userError(err)
			}
			return cli.printData(data)
		},
	}
}

// printData prints an object as key/value lines, a list of objects as a table, anything
// else as JSON.
func (cli *commandLine) printData(data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			cli.printf("%s: %s\n", k, tui.FormatValue(v[k]))
		}
		return nil
	case []interface{}:
		if len(v) == 0 {
			cli.printf("Sin registros\n")
			return nil
		}
		if headers, rows, ok := tui.Tabulate(v); ok {
			cli.printf("%s\n", cli.table(headers, rows))
			return nil
		}
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding view")
	}
	cli.printf("%s\n", out)
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (cli *commandLine) portalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portal",
		Short: "Abre el portal interactivo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.runPortal(cmd.Context())
		},
	}
}

func (cli *commandLine) runPortal(ctx context.Context) error {
	if !cli.interactive {
		return errors.New("el portal necesita una terminal interactiva")
	}
	// a rejected session falls back to the login view
	if _, err := cli.app.requireSession(ctx); err != nil && err != errNoSession && err != errSessionExpired {
		return err
	}
	return tui.Run(ctx, cli.app.tuiDeps())
}
