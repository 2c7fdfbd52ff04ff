package api

import (
	"encoding/json"
	"errors"

	"github.com/clbanning/mxj/v2"
	"github.com/kaptinlin/jsonrepair"
)

// decodeJSON unmarshals data into v, repairing relaxed JSON (single quotes,
// unquoted keys, trailing commas) on a syntax error.
func decodeJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

// xmlToValue converts an XML document into nested maps: attributes become
// "-name" keys, text next to attributes or children becomes "#text" and
// repeated children become lists. Values stay strings.
func xmlToValue(data string) (any, error) {
	m, err := mxj.NewMapXml([]byte(data))
	if err != nil {
		return nil, err
	}
	return map[string]any(m), nil
}
