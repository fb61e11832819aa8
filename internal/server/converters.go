package server

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// nodeField reads {"row": r, "col": c} from req[key]
func nodeField(req *structpb.Struct, key string) (grid.Node, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return grid.Node{}, fmt.Errorf("missing field %q", key)
	}
	obj := v.GetStructValue()
	if obj == nil {
		return grid.Node{}, fmt.Errorf("field %q must be an object with row and col", key)
	}
	row, err := intField(obj, "row")
	if err != nil {
		return grid.Node{}, fmt.Errorf("%s: %w", key, err)
	}
	col, err := intField(obj, "col")
	if err != nil {
		return grid.Node{}, fmt.Errorf("%s: %w", key, err)
	}
	return grid.Node{Row: row, Col: col}, nil
}

// intField reads an integral number field
func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("field %q must be an integer, got %v", key, f)
	}
	return int(f), nil
}

// optionalString reads req[key] or returns def when the field is absent or empty
func optionalString(req *structpb.Struct, key, def string) (string, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return def, nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q must be a string", key)
	}
	if s.StringValue == "" {
		return def, nil
	}
	return s.StringValue, nil
}

// optionalInt reads req[key] or returns def when the field is absent
func optionalInt(req *structpb.Struct, key string, def int) (int, error) {
	if _, ok := req.GetFields()[key]; !ok {
		return def, nil
	}
	return intField(req, key)
}

func nodeValue(n grid.Node) map[string]interface{} {
	return map[string]interface{}{"row": n.Row, "col": n.Col}
}

func pathValue(path []grid.Node) []interface{} {
	out := make([]interface{}, len(path))
	for i, n := range path {
		out[i] = nodeValue(n)
	}
	return out
}
