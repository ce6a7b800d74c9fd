package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Kind identifica cada regla de validación disponible.
// Variante etiquetada en vez de closures: permite switch exhaustivo y testear
// cada regla por separado.
type Kind string

const (
	KindDefined Kind = "defined"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
	KindEmail   Kind = "email"
	KindPeople  Kind = "people"
)

// Rule es una regla declarativa. Kind decide el chequeo; Allowed aplica a
// enum y Roles a people. Valores nil/ausentes pasan todas las reglas menos
// defined (semántica de campo opcional).
type Rule struct {
	Kind    Kind
	Allowed []string
	Roles   []string
}

func Defined() Rule { return Rule{Kind: KindDefined} }
func String() Rule  { return Rule{Kind: KindString} }
func Number() Rule  { return Rule{Kind: KindNumber} }
func Integer() Rule { return Rule{Kind: KindInteger} }
func Boolean() Rule { return Rule{Kind: KindBoolean} }
func Array() Rule   { return Rule{Kind: KindArray} }
func Object() Rule  { return Rule{Kind: KindObject} }

// Enum exige que el valor (si viene) pertenezca al conjunto permitido.
func Enum(allowed ...string) Rule {
	return Rule{Kind: KindEnum, Allowed: allowed}
}

// Email exige la forma mínima local@dominio (equivalente a /.+@.+/).
func Email() Rule { return Rule{Kind: KindEmail} }

// People exige un array de objetos, cada uno con email válido y role dentro
// del conjunto dado.
func People(roles ...string) Rule {
	return Rule{Kind: KindPeople, Roles: roles}
}

// Field es la tripleta (nombre, valor, reglas) que evalúa Check.
type Field struct {
	Name  Path
	Value any
	Rules []Rule
}

// F arma un Field con nombre dotted ("emergencyContact.phone" => path anidado).
func F(name string, value any, rs ...Rule) Field {
	return Field{Name: ParsePath(name), Value: value, Rules: rs}
}

// ValidationError identifica el campo y la regla violada. El mensaje es apto
// para el usuario; no expone estado interno.
type ValidationError struct {
	Field string
	Kind  Kind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindDefined:
		return fmt.Sprintf("the argument %s is undefined", e.Field)
	case KindEnum:
		return fmt.Sprintf("the argument %s is not an allowed value", e.Field)
	case KindEmail:
		return fmt.Sprintf("the argument %s is not a valid email", e.Field)
	case KindPeople:
		return fmt.Sprintf("the argument %s must contain objects with valid email and role properties", e.Field)
	default:
		return fmt.Sprintf("the argument %s is not a %s", e.Field, e.Kind)
	}
}

// Check evalúa las reglas de cada campo en orden. En modo estricto
// (lenient=false) devuelve el primer *ValidationError; en modo lenient corta
// las reglas restantes de ese campo, sigue con el próximo y devuelve false.
func Check(fields []Field, lenient bool) (bool, error) {
	ok := true
	for _, f := range fields {
		for _, r := range f.Rules {
			if r.check(f.Value) {
				continue
			}
			if !lenient {
				return false, &ValidationError{Field: f.Name.String(), Kind: r.Kind}
			}
			ok = false
			break
		}
	}
	return ok, nil
}

func (r Rule) check(v any) bool {
	// nil pasa todo menos defined: las reglas de tipo solo aplican si el
	// valor viene (opcional pero bien tipado).
	if v == nil {
		return r.Kind != KindDefined
	}

	switch r.Kind {
	case KindDefined:
		// String vacío/blanco cuenta como no definido; cero y false sí.
		if s, isStr := v.(string); isStr {
			return strings.TrimSpace(s) != ""
		}
		return true
	case KindString:
		_, isStr := v.(string)
		return isStr
	case KindNumber:
		_, isNum := asFloat(v)
		return isNum
	case KindInteger:
		f, isNum := asFloat(v)
		return isNum && f == math.Trunc(f)
	case KindBoolean:
		_, isBool := v.(bool)
		return isBool
	case KindArray:
		_, isArr := v.([]any)
		return isArr
	case KindObject:
		_, isObj := v.(map[string]any)
		return isObj
	case KindEnum:
		s, isStr := v.(string)
		if !isStr {
			return false
		}
		for _, a := range r.Allowed {
			if s == a {
				return true
			}
		}
		return false
	case KindEmail:
		s, isStr := v.(string)
		return isStr && validEmail(s)
	case KindPeople:
		items, isArr := v.([]any)
		if !isArr {
			return false
		}
		for _, item := range items {
			obj, isObj := item.(map[string]any)
			if !isObj {
				return false
			}
			email, _ := obj["email"].(string)
			role, _ := obj["role"].(string)
			if !validEmail(email) || !contains(r.Roles, role) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// validEmail: local y dominio no vacíos alrededor de un "@".
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}

func contains(set []string, s string) bool {
	for _, item := range set {
		if item == s {
			return true
		}
	}
	return false
}
