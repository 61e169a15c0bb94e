package trace

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Parse decodes a JSON trace document of the form:
//
//	{"workers": [{"name": "main",
//	              "actions": [{"name": "pop", "start": 0.0, "stop": 0.5,
//	                           "value": 3}]}]}
//
// Worker and action order is preserved; "value" is optional.
func Parse(data []byte) (*Trace, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in trace")
	}
	workers := gjson.GetBytes(data, "workers")
	if !workers.IsArray() {
		return nil, fmt.Errorf(`trace has no "workers" array`)
	}

	tr := &Trace{}
	var parseErr error
	workers.ForEach(func(_, wv gjson.Result) bool {
		name := wv.Get("name")
		if !name.Exists() || name.String() == "" {
			parseErr = fmt.Errorf("worker %d has no name", len(tr.Workers))
			return false
		}
		w := Worker{Name: name.String()}
		wv.Get("actions").ForEach(func(_, av gjson.Result) bool {
			a := Action{
				Name:  av.Get("name").String(),
				Start: av.Get("start").Float(),
				Stop:  av.Get("stop").Float(),
			}
			if a.Name == "" {
				parseErr = fmt.Errorf("worker %q action %d has no name",
					w.Name, len(w.Actions))
				return false
			}
			if v := av.Get("value"); v.Exists() {
				n := int(v.Int())
				a.Value = &n
			}
			w.Actions = append(w.Actions, a)
			return true
		})
		if parseErr != nil {
			return false
		}
		tr.Workers = append(tr.Workers, w)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return tr, nil
}

// Load reads and parses a JSON trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return Parse(data)
}
