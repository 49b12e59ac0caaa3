package entity

// Actividad labor agrícola registrada en la finca.
type Actividad struct {
	IDActividad int64  `json:"idActividad"`
	IDFinca     int64  `json:"idFinca"`
	FechaInicio Date   `json:"fechaInicio"`
	FechaFin    Date   `json:"fechaFin"`
	Descripcion string `json:"descripcion"`
}
