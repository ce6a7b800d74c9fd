package rules

import "strings"

// Path es un nombre de campo como lista de segmentos, en vez de concatenar
// strings con puntos por todos lados.
type Path []string

func ParsePath(name string) Path {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return Path(strings.Split(name, "."))
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup navega un objeto JSON decodificado siguiendo los segmentos del path.
// Devuelve nil si algún segmento intermedio falta o no es objeto.
func (p Path) Lookup(obj map[string]any) any {
	var cur any = obj
	for _, seg := range p {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}
