package risks

import "time"

// Escalas de la matriz de riesgo. Las reglas enum validan contra esto.
var (
	Likelihoods = []string{"Rare", "Unlikely", "Possible", "Likely", "Almost Certain"}

	Consequences = []string{"Insignificant", "Minor", "Moderate", "Major", "Catastrophic"}
)

// Entry es una fila de la evaluación de riesgos de una actividad.
type Entry struct {
	ID         string
	ActivityID string

	Description string
	Likelihood  string
	Consequence string
	Mitigation  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
