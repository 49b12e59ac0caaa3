// Package main es la CLI de la consola APROAFA: sesión, movimientos de inventario,
// reportes y reconciliación contra el backend, y el servidor de consola.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roca12/Proyecto-de-grado/internal/application/access"
	"github.com/roca12/Proyecto-de-grado/internal/bootstrap"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/pkg/config"
	"github.com/roca12/Proyecto-de-grado/pkg/logger"
)

const (
	Version = "0.1.0"
	appName = "aproafa"
)

// Códigos de salida.
const (
	exitOK      = 0
	exitError   = 1
	exitPartial = 2 // movimiento registrado con ajustes pendientes
	exitLogin   = 3 // sin sesión o sesión expirada
)

func main() {
	_ = godotenv.Load("configs/.env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &cli{stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}
	err := a.rootCmd().ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case domain.IsSessionError(err):
		return exitLogin
	case errors.Is(err, domain.ErrPartialConsistency):
		return exitPartial
	default:
		return exitError
	}
}

// cli estado compartido por los comandos. El contenedor se arma al primer uso.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	logLevel string
	jsonOut  bool

	// cfg y log los fija PersistentPreRunE; los tests pueden inyectarlos antes.
	cfg *config.Config
	log *logger.Logger
	c   *bootstrap.Container
}

func (a *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Consola de la plataforma APROAFA",
		Long: `Consola de operador para el backend APROAFA.

Guarda la sesión en SESSION_FILE y la usa en cada comando:
- login / logout / whoami
- venta, compra y uso de insumos (con ajuste de inventario)
- reportes de la finca (JSON o PDF)
- reconciliación de ajustes pendientes (administradores)
- serve: consola HTTP local`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetIn(a.stdin)

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Nivel de log (trace, debug, info, warn, error); vacío = LOG_LEVEL")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Salida en JSON")

	cmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.ventaCmd(),
		a.compraCmd(),
		a.usoCmd(),
		a.reporteCmd(),
		a.reconciliacionCmd(),
		a.migrateCmd(),
		a.serveCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Versión de la CLI",
			PersistentPreRunE: func(*cobra.Command, []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// setup carga configuración y logger. El log va a stderr para no mezclarse con la salida.
func (a *cli) setup() error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.log == nil {
		level := a.cfg.App.LogLevel
		if a.logLevel != "" {
			level = a.logLevel
		}
		env := "production"
		if f, ok := a.stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			env = "development"
		}
		a.log = logger.New(logger.Config{Env: env, Level: level, Output: a.stderr})
	}
	return nil
}

// container arma las dependencias (lee la sesión y, si hay base, conecta el diario).
func (a *cli) container(ctx context.Context) (*bootstrap.Container, error) {
	if a.c != nil {
		return a.c, nil
	}
	c, err := bootstrap.New(ctx, a.cfg, a.log, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	a.c = c
	return c, nil
}

// authorized arma el contenedor y comprueba que la sesión alcanza el destino.
func (a *cli) authorized(ctx context.Context, path string) (*bootstrap.Container, error) {
	c, err := a.container(ctx)
	if err != nil {
		return nil, err
	}
	d := c.Gate.Decide(access.Lookup(path))
	switch d.State {
	case access.Authorized:
		return c, nil
	case access.Unauthenticated:
		return nil, fmt.Errorf("%w: ejecute `%s login`", domain.ErrUnauthenticated, appName)
	default:
		return nil, fmt.Errorf("su rol no tiene acceso a %s", path)
	}
}

func (a *cli) close() {
	if a.c != nil {
		a.c.Close()
	}
}
