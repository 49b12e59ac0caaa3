package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roca12/Proyecto-de-grado/internal/bootstrap"
)

func (a *cli) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levantar la consola HTTP local",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.HTTP.Port = port
			}
			c, err := bootstrap.New(cmd.Context(), a.cfg, a.log, bootstrap.Options{Migrate: true})
			if err != nil {
				return err
			}
			a.c = c
			return c.Serve(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Puerto de escucha (por defecto HTTP_PORT)")
	return cmd
}

func (a *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crear la tabla del diario de reconciliación en PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.DB.Enabled() {
				return fmt.Errorf("defina DATABASE_URL o DB_HOST para usar el diario en PostgreSQL")
			}
			c, err := a.container(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Postgres.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Tabla reconciliation_items lista")
			return nil
		},
	}
}
