package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/registration"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

func (cli *commandLine) registerCmd() *cobra.Command {
	var userType string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Crea una cuenta de estudiante o profesor con un token de registro",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, ok := role.Parse(userType)
			if !ok || r == role.Admin {
				return errors.Errorf("tipo de usuario %q: usa estudiante o profesor", userType)
			}
			values, err := cli.askRegistration(r)
			if err != nil {
				return err
			}
			return cli.register(cmd.Context(), values)
		},
	}
	cmd.Flags().StringVarP(&userType, "type", "t", string(role.Student), "tipo de cuenta: estudiante o profesor")
	return cmd
}

func (cli *commandLine) askRegistration(r role.Role) (map[string]string, error) {
	fields := registration.Fields(r)
	if cli.interactive {
		values, err := fieldsForm("Registro de "+strings.ToLower(r.Name()), fields)
		if err != nil {
			return nil, err
		}
		values["userType"] = string(r)
		return values, nil
	}

	values := map[string]string{"userType": string(r)}
	for _, f := range fields {
		label := f.Label
		if f.Kind == crud.Choice {
			label += " (" + strings.Join(f.Choices, ", ") + ")"
		}
		if !f.Required {
			label += " [opcional]"
		}
		var v string
		var err error
		if f.Kind == crud.Password {
			v, err = cli.readPassword(label + ": ")
		} else {
			v, err = cli.prompt(label + ": ")
		}
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

// register validates values locally, sending nothing on failure, then creates the account.
func (cli *commandLine) register(ctx context.Context, values map[string]string) error {
	form, err := registration.NewForm(values)
	if err == nil {
		err = cli.app.validator.Struct(form)
	}
	if err != nil {
		return userError(err)
	}

	if err = cli.app.client.Register(ctx, form); err != nil {
		return userError(err)
	}
	cli.printf("Registro exitoso. Inicia sesión con: orquesta login %s --role %s\n", form.Email, form.UserType)
	return nil
}
