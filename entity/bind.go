package entity

import (
	"encoding/json"
	"errors"

	"github.com/drblury/swiftmove/jsonutil"
)

// Body is a decoded request body. Numbers arrive as json.Number.
type Body map[string]any

var errNotObject = errors.New("request body must be a JSON object")

// bind returns one statement argument per declared field, in declaration
// order, plus the subset of the body that names declared fields. Absent
// fields bind as NULL and are left out of the echo.
func (e Entity) bind(body Body) (args []any, supplied map[string]any, err error) {
	args = make([]any, 0, len(e.Fields))
	supplied = make(map[string]any, len(e.Fields))

	for _, f := range e.Fields {
		raw, ok := body[f.Name]
		if !ok {
			args = append(args, nil)
			continue
		}
		arg, err := bindValue(raw)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, arg)
		supplied[f.Name] = raw
	}
	return args, supplied, nil
}

func bindValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		if f, err := val.Float64(); err == nil {
			return f, nil
		}
		return val.String(), nil
	case float64:
		return val, nil
	default:
		// nested objects and arrays are stored as their JSON text
		encoded, err := jsonutil.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(encoded), nil
	}
}
