package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter renders the report as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf JSONFormatter) Name() string {
	if jf.Pretty {
		return "json"
	}
	return "json-compact"
}

func (jf JSONFormatter) Format(report *Report) ([]byte, error) {
	if report.IsEmpty() {
		return nil, fmt.Errorf("nothing to format")
	}
	if jf.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
