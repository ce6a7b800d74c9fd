package activities

import "time"

// Activity es la unidad central: un evento con metadata, su RoleMap y
// sub-recursos (riesgos, tablas, firmas) que viven en sus propios módulos.
type Activity struct {
	ID string

	Name     string
	Location string

	// Fechas/horas como strings planos (YYYY-MM-DD / HH:MM), igual que las
	// guarda el cliente.
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string

	People RoleMap

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overview es la proyección de campos editables de la actividad.
type Overview struct {
	Name      string
	Location  string
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

func (a Activity) Overview() Overview {
	return Overview{
		Name:      a.Name,
		Location:  a.Location,
		StartDate: a.StartDate,
		StartTime: a.StartTime,
		EndDate:   a.EndDate,
		EndTime:   a.EndTime,
	}
}

// Summary es lo que devuelve el listado por usuario.
type Summary struct {
	ID   string
	Name string
	Role Role
}
