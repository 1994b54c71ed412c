package main

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

func (cli *commandLine) loginCmd() *cobra.Command {
	var roleName string
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Inicia sesión; la contraseña se pide a continuación",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := role.Parse(roleName)
			if !ok {
				return errors.Errorf("rol desconocido %q: usa administrador, profesor o estudiante", roleName)
			}

			var email string
			var err error
			if len(args) == 1 {
				email = args[0]
			} else if email, err = cli.prompt("Email: "); err != nil {
				return err
			}
			pwd, err := cli.readPassword("Contraseña: ")
			if err != nil {
				return err
			}

			usr, err := cli.app.sessions.Login(cmd.Context(), email, pwd, r)
			if err != nil {
				return userError(err)
			}
			theme := cli.app.nav.Theme()
			cli.printf("Sesión iniciada como %s (%s)\n", usr.Nombre, usr.Role.Name())
			cli.printf("Inicio: %s\n", cli.app.sessions.DefaultRoute())
			cli.printf("Tema: %s\n", theme.Primary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&roleName, "role", "r", string(role.Admin), "tipo de usuario: administrador, profesor o estudiante")
	return cmd
}

func (cli *commandLine) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión guardada",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cli.app.sessions.Logout()
			cli.printf("Sesión cerrada\n")
			return nil
		},
	}
}

func (cli *commandLine) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := cli.app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			usr := sess.User
			cli.printf("%s <%s>\n", usr.Nombre, usr.Email)
			cli.printf("Rol: %s\n", usr.Role.Name())
			cli.printf("Inicio: %s\n", role.DashboardPath(usr.Role))
			if exp, ok := tokenExpiry(sess.Token); ok {
				cli.printf("La sesión expira: %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// tokenExpiry reads the expiry of a JWT credential. The signature is not checked: the
// credential stays opaque to the client, the backend is the one verifying it.
func tokenExpiry(token string) (time.Time, bool) {
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.ExpiresAt, 0), true
}
