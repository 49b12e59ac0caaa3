package access

import (
	"sort"
	"strings"

	"github.com/roca12/Proyecto-de-grado/internal/domain/entity"
)

var adminOnly = []entity.Role{entity.RoleAdmin}

// Routes tabla de destinos de la consola.
var Routes = map[string]Route{
	"/login":        {Path: "/login", Public: true},
	"/unauthorized": {Path: "/unauthorized", Public: true},

	"/menu":       {Path: "/menu"},
	"/personas":   {Path: "/personas"},
	"/insumos":    {Path: "/insumos"},
	"/produccion": {Path: "/produccion"},
	"/ventas":     {Path: "/ventas"},
	"/reportes":   {Path: "/reportes"},

	"/actividades":      {Path: "/actividades", Roles: adminOnly},
	"/admin-dashboard":  {Path: "/admin-dashboard", Roles: adminOnly},
	"/reconciliaciones": {Path: "/reconciliaciones", Roles: adminOnly},
}

// Lookup busca la ruta por su primer segmento (/insumos/4/compras -> /insumos).
// Un destino desconocido exige sesión.
func Lookup(path string) Route {
	if r, ok := Routes[path]; ok {
		return r
	}
	trimmed := strings.Trim(path, "/")
	first, _, _ := strings.Cut(trimmed, "/")
	if r, ok := Routes["/"+first]; ok {
		return r
	}
	return Route{Path: path}
}

// Paths destinos de la tabla en orden alfabético.
func Paths() []string {
	out := make([]string, 0, len(Routes))
	for p := range Routes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
