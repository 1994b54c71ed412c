package main

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
)

// confirmForm shows req as a terminal yes/no form.
func confirmForm(req alert.ConfirmRequest) (bool, error) {
	confirmed := false
	confirm := huh.NewConfirm().
		Title(req.Title).
		Description(req.Body).
		Affirmative(req.ConfirmLabel).
		Negative(req.CancelLabel).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, errors.Wrap(err, "confirmation form")
	}
	return confirmed, nil
}

// fieldsForm asks for every field in one terminal form.
func fieldsForm(title string, fields []crud.Field) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	ptrs := make(map[string]*string, len(fields))
	inputs := make([]huh.Field, 0, len(fields))

	for _, f := range fields {
		f := f
		v := new(string)
		ptrs[f.Name] = v

		if f.Kind == crud.Choice {
			opts := huh.NewOptions(f.Choices...)
			if !f.Required {
				opts = append([]huh.Option[string]{huh.NewOption("(ninguno)", "")}, opts...)
			}
			inputs = append(inputs, huh.NewSelect[string]().Title(f.Label).Options(opts...).Value(v))
			continue
		}

		in := huh.NewInput().Title(f.Label).Value(v)
		switch f.Kind {
		case crud.Password:
			in = in.EchoMode(huh.EchoModePassword)
		case crud.Date:
			in = in.Placeholder("AAAA-MM-DD")
		}
		if f.Required {
			in = in.Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("este campo es obligatorio")
				}
				return nil
			})
		}
		inputs = append(inputs, in)
	}

	form := huh.NewForm(huh.NewGroup(inputs...).Title(title))
	if err := form.Run(); err != nil {
		return nil, errors.Wrap(err, "form")
	}
	for name, v := range ptrs {
		values[name] = *v
	}
	return values, nil
}
