package tables

import "time"

// Kinds de tabla que maneja el cliente hoy. Se valida contra esto para no
// acumular colecciones basura por typos en la URL.
var Kinds = []string{"route", "gear", "meals", "transport"}

// Row es una fila de una tabla auxiliar de la actividad (ej: tabla de ruta).
// Cells es celda-por-columna, sin esquema fijo por kind.
type Row struct {
	ID         string
	ActivityID string
	Kind       string

	Position int
	Cells    map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}
