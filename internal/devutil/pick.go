// Package devutil tiene ayudas chicas para debug. Nada de acá debería
// estar en un path crítico.
package devutil

import "github.com/goccy/go-json"

// Pick pasa cualquier struct/map a map[string]any vía JSON y se queda
// solo con las keys pedidas. Útil para loguear un resumen sin volcar
// la estructura entera.
func Pick(v any, keys ...string) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		}
	}
	return out
}
