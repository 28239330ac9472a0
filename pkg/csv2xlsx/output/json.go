// Package output renders conversion results for machine consumption.
package output

import (
	"encoding/json"

	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/models"
)

// ToJSON serializes a workbook result, indented when pretty is set.
func ToJSON(result *models.WorkbookResult, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}
