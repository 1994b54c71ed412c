package main

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/apps/portal/screens"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

func (cli *commandLine) listCmd() *cobra.Command {
	var filters []string
	cmd := &cobra.Command{
		Use:       "list <entidad>",
		Short:     "Lista los registros de una entidad",
		Args:      cobra.ExactArgs(1),
		ValidArgs: cli.app.screens.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openScreen(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			values, err := parseAssignments("filter", filters)
			if err != nil {
				return err
			}
			if err = checkFilters(s, values); err != nil {
				return err
			}
			s.SetFilters(crud.Filters(values))

			rows := s.Rows()
			cli.printf("%s\n", cli.renderTable(s.Columns(), rows))
			cli.printf("%d de %d registros\n", len(rows), s.Count())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filtro clave=valor (repetible)")
	return cmd
}

func (cli *commandLine) createCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "create <entidad>",
		Short: "Crea un registro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openScreen(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			values, err := parseAssignments("set", sets)
			if err != nil {
				return err
			}
			s.OpenCreate()
			return cli.submit(cmd.Context(), s, values)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "valor campo=valor (repetible)")
	return cmd
}

func (cli *commandLine) updateCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "update <entidad> <id>",
		Short: "Modifica un registro; los campos omitidos conservan su valor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := cli.openRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			defer s.Close()

			values, err := parseAssignments("set", sets)
			if err != nil {
				return err
			}
			if err = s.OpenEdit(id); err != nil {
				return userError(err)
			}
			return cli.submit(cmd.Context(), s, values)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "valor campo=valor (repetible)")
	return cmd
}

// submit sends the open form with values applied over its current ones.
func (cli *commandLine) submit(ctx context.Context, s screens.Screen, values map[string]string) error {
	form, _ := s.Form()
	if err := checkFields(s, form.Mode, values); err != nil {
		return err
	}
	merged := make(map[string]string, len(form.Values)+len(values))
	for k, v := range form.Values {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}

	err := cli.runOp(ctx, false, func(ctx context.Context) error { return s.Submit(ctx, merged) })
	if err == nil {
		return nil
	}
	if form, ok := s.Form(); ok && len(form.Errors) > 0 {
		return fieldsError(form.Errors)
	}
	return userError(err)
}

func (cli *commandLine) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <entidad> <id>",
		Short: "Elimina un registro, previa confirmación",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := cli.openRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			defer s.Close()

			var deleted bool
			err = cli.runOp(cmd.Context(), yes, func(ctx context.Context) error {
				var err error
				deleted, err = s.Delete(ctx, id)
				return err
			})
			if err != nil {
				return userError(err)
			}
			if !deleted {
				cli.printf("Cancelado\n")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "no pedir confirmación")
	return cmd
}

func (cli *commandLine) actionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action <entidad> <id> [acción [valor]]",
		Short: "Aplica un cambio de estado; sin acción lista las disponibles",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := cli.openRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 2 {
				actions := s.Actions(id)
				if len(actions) == 0 {
					cli.printf("No hay acciones disponibles\n")
				}
				for _, a := range actions {
					cli.printf("%-16s %s", a.Name, a.Label)
					if len(a.Args) > 0 {
						cli.printf(" (%s)", strings.Join(a.Args, ", "))
					}
					cli.printf("\n")
				}
				return nil
			}

			var arg string
			if len(args) == 4 {
				arg = args[3]
			}
			err = cli.runOp(cmd.Context(), false, func(ctx context.Context) error { return s.Patch(ctx, id, args[2], arg) })
			return userError(err)
		},
	}
}

func (cli *commandLine) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <entidad>",
		Short: "Muestra el JSON Schema del formulario de una entidad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.screen(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
			if err != nil {
				return errors.Wrap(err, "encoding schema")
			}
			cli.printf("%s\n", out)
			return nil
		},
	}
}

func (cli *commandLine) screen(name string) (screens.Screen, error) {
	s, ok := cli.app.screens.Get(strings.ToLower(name))
	if !ok {
		return nil, errors.Errorf("entidad desconocida %q: usa %s", name, strings.Join(cli.app.screens.Names(), ", "))
	}
	return s, nil
}

// openScreen opens the screen of entity name for the logged in user.
func (cli *commandLine) openScreen(ctx context.Context, name string) (screens.Screen, error) {
	s, err := cli.screen(name)
	if err != nil {
		return nil, err
	}
	if _, err = cli.app.requireSession(ctx); err != nil {
		return nil, err
	}
	if err = s.Open(ctx); err != nil {
		s.Close()
		return nil, userError(err)
	}
	return s, nil
}

func (cli *commandLine) openRecord(ctx context.Context, name, rawID string) (screens.Screen, int, error) {
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return nil, 0, errors.Errorf("id inválido %q", rawID)
	}
	s, err := cli.openScreen(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	return s, id, nil
}

func checkFilters(s screens.Screen, values map[string]string) error {
	return checkNames("filtro", s.FilterFields(), values)
}

func checkFields(s screens.Screen, mode crud.FormMode, values map[string]string) error {
	return checkNames("campo", s.Fields(mode), values)
}

func checkNames(what string, fields []crud.Field, values map[string]string) error {
	known := make(map[string]bool, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		known[f.Name] = true
		names = append(names, f.Name)
	}
	var unknown []string
	for name := range values {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Errorf("%s desconocido %q: usa %s", what, strings.Join(unknown, ", "), strings.Join(names, ", "))
}

func (cli *commandLine) renderTable(cols []screens.Column, rows []screens.Row) string {
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, c.Title)
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.Cells)
	}
	return cli.table(headers, cells)
}

func (cli *commandLine) table(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cli.app.nav.Theme().Primary))
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
