package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/application/inventory"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
)

func (a *cli) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
}

// printWorkflow muestra el resultado de un flujo. Con consistencia parcial imprime
// el resultado y devuelve el error para que el código de salida lo refleje.
func (a *cli) printWorkflow(title string, res *inventory.Result, err error) error {
	var partial *domain.PartialConsistencyError
	if err != nil && !errors.As(err, &partial) {
		return err
	}
	if res == nil {
		return err
	}

	resp := dto.NewWorkflowResponse(res, err)
	if a.jsonOut {
		if encErr := a.printJSON(resp); encErr != nil {
			return encErr
		}
		return err
	}

	fmt.Fprintf(a.stdout, "%s (saga %s)\n", title, resp.SagaID)
	if len(resp.Steps) > 0 {
		w := a.table()
		fmt.Fprintln(w, "RECURSO\tID\tANTES\tDESPUÉS\tESTADO\tRECONCILIACIÓN")
		for _, s := range resp.Steps {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", s.ResourceType, s.ResourceID, s.Previous, s.Target, s.Status, s.ReconciliationID)
		}
		if flushErr := w.Flush(); flushErr != nil {
			return flushErr
		}
	}
	if partial != nil {
		fmt.Fprintf(a.stderr, "Aviso: %s\n", partial)
		fmt.Fprintf(a.stderr, "Revise los pendientes con `%s reconciliacion listar`\n", appName)
	}
	if domain.IsSessionError(err) {
		fmt.Fprintf(a.stderr, "La sesión expiró durante los ajustes: ejecute `%s login`\n", appName)
	}
	return err
}
