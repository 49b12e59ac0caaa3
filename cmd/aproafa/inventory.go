package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roca12/Proyecto-de-grado/internal/application/dto"
	"github.com/roca12/Proyecto-de-grado/internal/application/inventory"
	"github.com/roca12/Proyecto-de-grado/internal/domain"
	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

func (a *cli) ventaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venta",
		Short: "Ventas de producción",
	}
	var file string
	registrar := &cobra.Command{
		Use:   "registrar",
		Short: "Registrar una venta y descontar los lotes vendidos",
		Long: `Lee la venta en JSON (mismo cuerpo que POST /ventas):

  {"idCliente": 5, "metodoPago": "EFECTIVO", "detalles": [
    {"idProduccion": 1, "cantidad": 30, "precioUnitario": 1500}
  ]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.SaleRequest
			if err := a.readJSON(file, &req); err != nil {
				return err
			}
			c, err := a.authorized(cmd.Context(), inventory.PathVentas)
			if err != nil {
				return err
			}
			res, err := c.Sale.Execute(cmd.Context(), req.ToInput())
			return a.printWorkflow("Venta registrada", res, err)
		},
	}
	registrar.Flags().StringVarP(&file, "file", "f", "", `Archivo JSON de la venta ("-" = stdin)`)
	_ = registrar.MarkFlagRequired("file")
	cmd.AddCommand(registrar)
	return cmd
}

func (a *cli) compraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compra",
		Short: "Compras de insumos",
	}
	var (
		idInsumo, idProveedor int64
		cantidad, precio      string
		fecha                 string
	)
	registrar := &cobra.Command{
		Use:   "registrar",
		Short: "Registrar la compra de un insumo",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := inventory.PurchaseInput{IDInsumo: idInsumo, IDProveedor: idProveedor}
			var err error
			if in.Cantidad, err = decimalFlag("cantidad", cantidad); err != nil {
				return err
			}
			if in.PrecioUnitario, err = decimalFlag("precio", precio); err != nil {
				return err
			}
			if fecha != "" {
				if in.FechaCompra, err = entity.ParseDate(fecha); err != nil {
					return &domain.ValidationError{Field: "fecha", Reason: "use el formato AAAA-MM-DD"}
				}
			}
			c, err := a.authorized(cmd.Context(), inventory.PathInsumos)
			if err != nil {
				return err
			}
			res, err := c.Purchase.Execute(cmd.Context(), in)
			return a.printWorkflow("Compra registrada", res, err)
		},
	}
	registrar.Flags().Int64Var(&idInsumo, "insumo", 0, "idInsumo")
	registrar.Flags().Int64Var(&idProveedor, "proveedor", 0, "idProveedor (obligatorio si el insumo no tiene proveedor)")
	registrar.Flags().StringVar(&cantidad, "cantidad", "", "Cantidad comprada")
	registrar.Flags().StringVar(&precio, "precio", "", "Precio unitario")
	registrar.Flags().StringVar(&fecha, "fecha", "", "Fecha de compra AAAA-MM-DD (por defecto hoy)")
	_ = registrar.MarkFlagRequired("insumo")
	cmd.AddCommand(registrar)
	return cmd
}

func (a *cli) usoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uso",
		Short: "Uso (consumo) de insumos",
	}
	var (
		idInsumo int64
		cantidad string
	)
	registrar := &cobra.Command{
		Use:   "registrar",
		Short: "Registrar el uso de un insumo",
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimalFlag("cantidad", cantidad)
			if err != nil {
				return err
			}
			c, err := a.authorized(cmd.Context(), inventory.PathInsumos)
			if err != nil {
				return err
			}
			res, err := c.Usage.Execute(cmd.Context(), inventory.UsageInput{IDInsumo: idInsumo, Cantidad: qty})
			return a.printWorkflow("Uso registrado", res, err)
		},
	}
	registrar.Flags().Int64Var(&idInsumo, "insumo", 0, "idInsumo")
	registrar.Flags().StringVar(&cantidad, "cantidad", "", "Cantidad usada")
	_ = registrar.MarkFlagRequired("insumo")
	cmd.AddCommand(registrar)
	return cmd
}

// decimalFlag vacío = 0 (la validación del flujo lo rechaza con su propio mensaje).
func decimalFlag(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: name, Reason: fmt.Sprintf("número inválido %q", raw)}
	}
	return d, nil
}

func (a *cli) readJSON(path string, v any) error {
	var r io.Reader = a.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("leyendo %s: %w", path, err)
	}
	return nil
}
