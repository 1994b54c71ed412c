package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/crud"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/events"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errInvalidForm = errors.New("datos inválidos")
)

// pollInterval bounds how long an unnoticed confirmation request can wait for its prompt.
const pollInterval = 50 * time.Millisecond

type commandLine struct {
	app         *app
	in          *bufio.Reader
	out         io.Writer
	interactive bool // stdin is a terminal: prompts use forms instead of plain lines
}

func newCommandLine(a *app, in io.Reader, out io.Writer, interactive bool) *commandLine {
	return &commandLine{app: a, in: bufio.NewReader(in), out: out, interactive: interactive}
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	return root.ExecuteContext(ctx)
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "orquesta",
		Short: "Portal de la Orquesta de Cobquecura",
		Long: `Cliente de administración y portal académico de la Orquesta de Cobquecura.

Sin argumentos abre el portal interactivo. Los subcomandos permiten gestionar
los registros desde scripts.

Ejemplos:
  orquesta login admin@orquesta.cl --role administrador
  orquesta list prestamos --filter estado=activo
  orquesta delete tokens 3
  orquesta view horario`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.runPortal(cmd.Context())
		},
	}
	root.AddCommand(
		cli.loginCmd(),
		cli.logoutCmd(),
		cli.whoamiCmd(),
		cli.registerCmd(),
		cli.menuCmd(),
		cli.listCmd(),
		cli.createCmd(),
		cli.updateCmd(),
		cli.deleteCmd(),
		cli.actionCmd(),
		cli.schemaCmd(),
		cli.viewCmd(),
		cli.portalCmd(),
	)
	return root
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format, args...)
}

// prompt reads one line of input.
func (cli *commandLine) prompt(label string) (string, error) {
	cli.printf("%s", label)
	line, err := cli.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

func (cli *commandLine) readPassword(label string) (string, error) {
	cli.printf("%s", label)
	pwd, err := readPasswordFunc(syscall.Stdin)
	cli.printf("\n")
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

// confirm asks a yes/no question; anything but an explicit yes is a no.
func (cli *commandLine) confirm(req alert.ConfirmRequest) bool {
	if cli.interactive {
		ok, err := confirmForm(req)
		return err == nil && ok
	}
	answer, err := cli.prompt(fmt.Sprintf("%s\n%s [s/N]: ", req.Title, req.Body))
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}

// runOp runs fn, answering the confirmation it may open (or every one, when assumeYes is
// set), then prints the notifications it produced. Failures are returned, not printed.
func (cli *commandLine) runOp(ctx context.Context, assumeYes bool, fn func(ctx context.Context) error) error {
	sub := cli.app.bus.Subscribe("cli")
	defer cli.app.bus.Unsubscribe("cli")
	seen := toastIDs(cli.app.alerts.Toasts())

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	answer := func() {
		req, open := cli.app.alerts.Pending()
		if !open {
			return
		}
		cli.app.alerts.Resolve(assumeYes || cli.confirm(req))
	}

	var err error
wait:
	for {
		select {
		case err = <-done:
			break wait
		case ev, ok := <-sub:
			if ok && ev.Source == events.Alerts {
				answer()
			}
		case <-ticker.C:
			answer()
		}
	}

	for _, t := range cli.app.alerts.Toasts() {
		if seen[t.ID] || t.Severity == alert.Error {
			continue
		}
		cli.printf("%s: %s\n", t.Title, t.Body)
	}
	return err
}

func toastIDs(toasts []alert.Toast) map[uint64]bool {
	ids := make(map[uint64]bool, len(toasts))
	for _, t := range toasts {
		ids[t.ID] = true
	}
	return ids
}

// userError turns err into the message shown to the user. Field errors are listed one per line.
func userError(err error) error {
	if err == nil {
		return nil
	}
	if fields, ok := core.FieldErrors(err); ok && len(fields) > 0 {
		return fieldsError(fields)
	}
	// rejected by the server
	if fe, ok := errors.Cause(err).(interface{ FieldErrors() map[string]string }); ok && len(fe.FieldErrors()) > 0 {
		return fieldsError(fe.FieldErrors())
	}
	return errors.New(crud.Message(err))
}

func fieldsError(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(errInvalidForm.Error())
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, fields[name])
	}
	return errors.New(b.String())
}

// parseAssignments parses repeated `key=value` flags.
func parseAssignments(flag string, pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Errorf("--%s %q: se espera clave=valor", flag, p)
		}
		values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return values, nil
}
