package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/records"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
	testutil "github.com/salonas/OrquestaDeCobquecuraWEB-sub001/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	input      string   // stdin lines
	wantErr    error
	wantErrStr string // substring of the error
	wantOut    []string
}

func setup(t *testing.T) (*app, *records.DB) {
	t.Helper()
	conf, db := testutil.StartSandbox(t)
	a := newApp(conf, core.NopLogger(), local.NewMemStore())
	t.Cleanup(a.Close)

	readPasswordFunc = func(int) ([]byte, error) { return []byte(records.DemoPassword), nil }
	return a, db
}

func runTests(t *testing.T, a *app, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cli := newCommandLine(a, strings.NewReader(tt.input), &out, false)
			err := cli.run(context.Background(), tt.args)

			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
			default:
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func Test_commandLine_session(t *testing.T) {
	a, _ := setup(t)

	runTests(t, a, []cliTest{
		{name: "whoami without session", args: []string{"whoami"}, wantErr: errNoSession},
		{name: "unknown role", args: []string{"login", records.StudentEmail, "--role", "director"}, wantErrStr: "rol desconocido"},
		{name: "wrong role", args: []string{"login", records.StudentEmail, "--role", "profesor"}, wantErrStr: "Credenciales inválidas"},
		{
			name:    "login student",
			args:    []string{"login", records.StudentEmail, "-r", "estudiante"},
			wantOut: []string{"Sesión iniciada como", "Inicio: /estudiante/dashboard", "Tema: #4e73df"},
		},
		{name: "whoami", args: []string{"whoami"}, wantOut: []string{records.StudentEmail, "Rol: Estudiante"}},
		{name: "student menu", args: []string{"menu"}, wantOut: []string{"Menú de Estudiante", "▾ Música", "/estudiante/repertorio"}},
		{name: "collapse section", args: []string{"menu", "--toggle", "Música"}, wantOut: []string{"▸ Música"}},
		{name: "student view", args: []string{"view", "prestamos"}, wantOut: []string{"Violín 4/4 (SN-V001)"}},
		{name: "unknown view", args: []string{"view", "notas"}, wantErrStr: "vista desconocida"},
		{name: "logout", args: []string{"logout"}, wantOut: []string{"Sesión cerrada"}},
		{name: "whoami after logout", args: []string{"whoami"}, wantErr: errNoSession},
	})
}

func Test_commandLine_entities(t *testing.T) {
	a, db := setup(t)

	runTests(t, a, []cliTest{
		{name: "list without session", args: []string{"list", "prestamos"}, wantErr: errNoSession},
		{name: "login admin", args: []string{"login", records.AdminEmail}, wantOut: []string{"Inicio: /admin/dashboard"}},
		{name: "admin menu", args: []string{"menu"}, wantOut: []string{"Menú de Administrador", "Accesos rápidos"}},
		{name: "admin has no personal views", args: []string{"view", "perfil"}, wantErrStr: "vistas personales"},
		{name: "unknown entity", args: []string{"list", "partituras"}, wantErrStr: "entidad desconocida"},
		{name: "list", args: []string{"list", "prestamos"}, wantOut: []string{"Camila Rojas", "2 de 2 registros"}},
		{name: "list filtered", args: []string{"list", "prestamos", "--filter", "estado=devuelto"}, wantOut: []string{"1 de 2 registros"}},
		{name: "unknown filter", args: []string{"list", "prestamos", "-f", "color=rojo"}, wantErrStr: "filtro desconocido"},
		{name: "bad filter", args: []string{"list", "prestamos", "-f", "estado"}, wantErrStr: "se espera clave=valor"},
		{name: "invalid id", args: []string{"delete", "prestamos", "cero"}, wantErrStr: "id inválido"},
		{name: "delete cancelled", args: []string{"delete", "tokens", "1"}, input: "n\n", wantOut: []string{"Cancelado"}},
		{name: "delete returned loan", args: []string{"delete", "prestamos", "2", "--yes"}, wantErrStr: "already returned"},
		{name: "loan actions", args: []string{"action", "prestamos", "1"}, wantOut: []string{"devolver"}},
		{name: "unknown field", args: []string{"update", "instrumentos", "1", "--set", "peso=3"}, wantErrStr: "campo desconocido"},
		{name: "schema", args: []string{"schema", "prestamos"}, wantOut: []string{`"instrumentoId"`, `"required"`}},
	})

	tokens, err := db.Tokens.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func Test_commandLine_register(t *testing.T) {
	a, db := setup(t)

	// one line per non-password field, in prompt order
	input := func(token string) string {
		return strings.Join([]string{
			"12.345.678-5",
			"Josefa",
			"Muñoz",
			"josefa.munoz@orquesta.cl",
			"",
			"2010-04-12",
			"Cello",
			"principiante",
			token,
		}, "\n") + "\n"
	}

	usage := func() int {
		tokens, err := db.Tokens.All(context.Background())
		require.NoError(t, err)
		for _, tok := range tokens {
			if tok.Token == "EST2024" {
				return tok.UsosActuales
			}
		}
		t.Fatal("seed token EST2024 not found")
		return 0
	}
	before := usage()

	runTests(t, a, []cliTest{
		{name: "administrators cannot register", args: []string{"register", "-t", "administrador"}, wantErrStr: "usa estudiante o profesor"},
		{name: "short token", args: []string{"register"}, input: input("EST20"), wantErrStr: "tokenRegistro"},
	})
	assert.Equal(t, before, usage(), "an invalid form must not reach the server")

	runTests(t, a, []cliTest{
		{name: "register", args: []string{"register"}, input: input("EST2024"), wantOut: []string{"Registro exitoso", "josefa.munoz@orquesta.cl"}},
	})
	assert.Equal(t, before+1, usage())
}
