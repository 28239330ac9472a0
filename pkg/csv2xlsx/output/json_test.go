package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/models"
)

func TestToJSON(t *testing.T) {
	result := &models.WorkbookResult{
		Output: "out.xlsx",
		Size:   4096,
		Sheets: []models.SheetResult{
			{Title: "sales", Source: "in/sales.csv", Delimiter: ",", Sniffed: true, Rows: 2, Cols: 2, Range: "A1:B2"},
			{Title: "broken", Source: "in/broken.csv", Warning: "failed to process in/broken.csv (read): boom"},
		},
	}

	data, err := ToJSON(result, false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(data), "\n") {
		t.Errorf("Expected compact JSON, got %s", data)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	sheets, ok := decoded["sheets"].([]interface{})
	if !ok || len(sheets) != 2 {
		t.Fatalf("Expected two sheets, got %v", decoded["sheets"])
	}
	first := sheets[0].(map[string]interface{})
	if _, has := first["warning"]; has {
		t.Errorf("Expected warning to be omitted for a clean sheet: %v", first)
	}
	second := sheets[1].(map[string]interface{})
	if second["warning"] == "" {
		t.Errorf("Expected warning for failed sheet: %v", second)
	}

	pretty, err := ToJSON(result, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"output\": \"out.xlsx\"") {
		t.Errorf("Expected indented JSON, got %s", pretty)
	}
}
