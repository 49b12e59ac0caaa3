package entity

import "strings"

// Proveedor proveedor de insumos de una finca.
type Proveedor struct {
	IDProveedor int64  `json:"idProveedor"`
	Nombre      string `json:"nombre"`
	Contacto    string `json:"contacto"`
}

// Cliente cliente de la finca (ClienteDTO).
type Cliente struct {
	IDCliente            int64  `json:"idCliente"`
	TipoCliente          string `json:"tipoCliente"`
	IDPersona            int64  `json:"idPersona"`
	Nombre               string `json:"nombre"`
	Apellido             string `json:"apellido"`
	NumeroIdentificacion string `json:"numeroIdentificacion"`
	Email                string `json:"email"`
	Telefono             string `json:"telefono"`
	IDFinca              int64  `json:"idFinca"`
}

// FullName nombre para mostrar del cliente.
func (c Cliente) FullName() string {
	return strings.TrimSpace(c.Nombre + " " + c.Apellido)
}
