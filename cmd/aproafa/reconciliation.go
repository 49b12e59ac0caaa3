package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
)

const pathReconciliaciones = "/reconciliaciones"

func (a *cli) reconciliacionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reconciliacion",
		Aliases: []string{"rec"},
		Short:   "Ajustes de inventario pendientes (administradores)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "listar",
		Short: "Listar los ajustes pendientes, más antiguos primero",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authorized(cmd.Context(), pathReconciliaciones)
			if err != nil {
				return err
			}
			items, err := c.Reconcile.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]dto.ReconciliationItemResponse, 0, len(items))
			for _, it := range items {
				out = append(out, dto.NewReconciliationItemResponse(it))
			}
			if a.jsonOut {
				return a.printJSON(out)
			}
			if len(out) == 0 {
				fmt.Fprintln(a.stdout, "No hay ajustes pendientes")
				return nil
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tFLUJO\tRECURSO\tANTES\tOBJETIVO\tINTENTOS\tÚLTIMO ERROR")
			for _, it := range out {
				fmt.Fprintf(w, "%s\t%s\t%s %d\t%s\t%s\t%d\t%s\n",
					it.ID, it.Workflow, it.ResourceType, it.ResourceID, it.Previous, it.Target, it.Attempts, it.LastError)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reintentar ID",
		Short: "Reaplicar la cantidad objetivo de un ajuste pendiente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authorized(cmd.Context(), pathReconciliaciones)
			if err != nil {
				return err
			}
			item, err := c.Reconcile.Retry(cmd.Context(), args[0])
			if err != nil {
				if item != nil {
					fmt.Fprintf(a.stderr, "El ajuste %s sigue pendiente (%d intentos)\n", item.ID, item.Attempts)
				}
				return err
			}
			if a.jsonOut {
				return a.printJSON(dto.NewReconciliationItemResponse(item))
			}
			fmt.Fprintf(a.stdout, "Ajuste %s: %s\n", item.ID, item.Status)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "descartar ID",
		Short: "Descartar un ajuste pendiente (revisión manual)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authorized(cmd.Context(), pathReconciliaciones)
			if err != nil {
				return err
			}
			if err := c.Reconcile.Dismiss(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Ajuste %s descartado\n", args[0])
			return nil
		},
	})
	return cmd
}
