package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line,omitempty"`

	// Destino al que debe ir el operador (sesión ausente o sin permiso).
	Redirect string `json:"redirect,omitempty"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NavigationResponse destinos que el usuario de la sesión puede abrir.
type NavigationResponse struct {
	User     SessionUserResponse `json:"user"`
	Destinos []string            `json:"destinos"`
}
