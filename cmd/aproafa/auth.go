package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
)

func (a *cli) loginCmd() *cobra.Command {
	var (
		idPersona    int64
		passwordFile string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión en el backend",
		Long: `Valida las credenciales contra el backend y guarda token y usuario en SESSION_FILE.

La contraseña se pide por terminal, o se lee de --password-file ("-" = preguntar).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readPassword(passwordFile)
			if err != nil {
				return err
			}
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			user, target, err := c.Login.Login(cmd.Context(), idPersona, password)
			if err != nil {
				return err
			}
			exp, _ := c.Session.ExpiresAt()
			if a.jsonOut {
				return a.printJSON(dto.LoginResponse{User: dto.NewSessionUserResponse(user, exp), Redirect: target})
			}
			fmt.Fprintf(a.stdout, "Sesión iniciada como %s (%s)\n", user.FullName(), user.Role())
			fmt.Fprintf(a.stdout, "Inicio: %s\n", target)
			fmt.Fprintf(a.stderr, "Sesión guardada en %s\n", a.cfg.Session.File)
			return nil
		},
	}
	cmd.Flags().Int64Var(&idPersona, "id", 0, "idPersona del usuario")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Archivo con la contraseña")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// readPassword lee la contraseña del archivo o, sin archivo, de la terminal sin eco.
func (a *cli) readPassword(passwordFile string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("leyendo %s: %w", passwordFile, err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", fmt.Errorf("el archivo %s está vacío", passwordFile)
		}
		return password, nil
	}

	in, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return "", fmt.Errorf("no hay terminal para pedir la contraseña (use --password-file)")
	}
	fmt.Fprint(a.stderr, "Contraseña: ")
	raw, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("leyendo contraseña: %w", err)
	}
	return string(raw), nil
}

func (a *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar sesión",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Login.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Sesión cerrada")
			return nil
		},
	}
}

func (a *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Usuario de la sesión guardada",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			user, ok := c.Session.CurrentUser()
			if !ok {
				return fmt.Errorf("%w: ejecute `%s login`", domain.ErrUnauthenticated, appName)
			}
			exp, _ := c.Session.ExpiresAt()
			resp := dto.NewSessionUserResponse(user, exp)
			resp.Expirado = c.Session.TokenExpired(time.Now())
			if a.jsonOut {
				return a.printJSON(resp)
			}
			w := a.table()
			fmt.Fprintf(w, "Usuario\t%s\n", user.FullName())
			fmt.Fprintf(w, "idPersona\t%d\n", resp.ID)
			fmt.Fprintf(w, "Rol\t%s (%s)\n", resp.Rol, resp.TipoUsuario)
			fmt.Fprintf(w, "Finca\t%d\n", resp.IDFinca)
			if resp.ExpiresAt != nil {
				expira := resp.ExpiresAt.Local().Format("2006-01-02 15:04")
				if resp.Expirado {
					expira += " (expirado: ejecute `" + appName + " login`)"
				}
				fmt.Fprintf(w, "Expira\t%s\n", expira)
			}
			return w.Flush()
		},
	}
}
