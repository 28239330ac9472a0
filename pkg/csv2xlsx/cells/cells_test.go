package cells

import (
	"reflect"
	"testing"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"+7", int64(7)},
		{".5", 0.5},
		{"0", int64(0)},
		{"0.25", 0.25},
		{"1e3", 1000.0},
		{"hello", "hello"},
		{"", ""},
		{"007", "007"},
		{" 12", " 12"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"1.2.3", "1.2.3"},
		{"1234567890123456789", "1234567890123456789"},
		{"0x1F", "0x1F"},
	}

	for _, tt := range tests {
		result := ParseValue(tt.input)
		if result != tt.expected {
			t.Errorf("ParseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestValues(t *testing.T) {
	row := []string{"x", "1", "2.5"}

	plain := Values(row, false)
	if !reflect.DeepEqual(plain, []interface{}{"x", "1", "2.5"}) {
		t.Errorf("Expected text values, got %v", plain)
	}

	typed := Values(row, true)
	if !reflect.DeepEqual(typed, []interface{}{"x", int64(1), 2.5}) {
		t.Errorf("Expected inferred values, got %v", typed)
	}

	if empty := Values(nil, true); len(empty) != 0 {
		t.Errorf("Expected no values, got %v", empty)
	}
}

func TestBounds(t *testing.T) {
	var b Bounds
	if b.Range() != "" {
		t.Errorf("Expected empty range, got %q", b.Range())
	}
	cell, err := b.NextCell()
	if err != nil || cell != "A1" {
		t.Errorf("Expected A1, got %q (%v)", cell, err)
	}

	b.Add(2)
	b.Add(0)
	b.Add(28)

	if b.Rows != 3 || b.Cols != 28 {
		t.Errorf("Unexpected bounds %+v", b)
	}
	if got := b.Range(); got != "A1:AB3" {
		t.Errorf("Expected A1:AB3, got %q", got)
	}
	if cell, _ := b.NextCell(); cell != "A4" {
		t.Errorf("Expected A4, got %q", cell)
	}
}

func TestWidths(t *testing.T) {
	var w Widths
	w.Observe([]string{"id", "a fairly long description"})
	w.Observe([]string{"12345678901234", "short", "日本語"})
	w.Observe([]string{"x", "line one\nmuch longer second line here, really long indeed, going past the cap of the column width limit"})

	cols := w.Columns()
	if len(cols) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(cols))
	}
	if cols[0] != 16 {
		t.Errorf("Expected width 16 for first column, got %v", cols[0])
	}
	if cols[1] != MaxColumnWidth {
		t.Errorf("Expected capped width, got %v", cols[1])
	}
	if cols[2] != MinColumnWidth {
		t.Errorf("Expected minimum width for narrow column, got %v", cols[2])
	}
}
