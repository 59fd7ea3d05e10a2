package formatter

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"testing"
)

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{name: "nil", input: nil, expected: "null"},
		{name: "true", input: true, expected: "true"},
		{name: "false", input: false, expected: "false"},
		{name: "int", input: int64(42), expected: "42"},
		{name: "negative int", input: int64(-7), expected: "-7"},
		{name: "whole float", input: 12.0, expected: "12"},
		{name: "fractional float", input: 1.5, expected: "1.5"},
		{name: "string", input: "hello", expected: `"hello"`},
		{name: "nan", input: math.NaN(), expected: "null"},
		{name: "positive inf", input: math.Inf(1), expected: "null"},
		{name: "negative inf", input: math.Inf(-1), expected: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Encode(tt.input))
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEncodeStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "backslash", input: `a\b`, expected: `"a\\b"`},
		{name: "quote", input: `say "hi"`, expected: `"say \"hi\""`},
		{name: "newline", input: "a\nb", expected: `"a\nb"`},
		{name: "carriage return", input: "a\rb", expected: `"a\rb"`},
		{name: "tab", input: "a\tb", expected: `"a\tb"`},
		{name: "control char", input: "a\x01b", expected: "\"a\\u0001b\""},
		{name: "high control char", input: "a\x1fb", expected: "\"a\\u001fb\""},
		{name: "unicode passthrough", input: "Glück", expected: `"Glück"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Encode(tt.input))
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSequenceClassification(t *testing.T) {
	tests := []struct {
		name     string
		input    Map
		expected string
	}{
		{
			name:     "dense integer keys become array",
			input:    Map{"1": "a", "2": "b", "3": "c"},
			expected: `["a","b","c"]`,
		},
		{
			name:     "gap forces object",
			input:    Map{"1": "a", "2": "b", "4": "c"},
			expected: `{"1":"a","2":"b","4":"c"}`,
		},
		{
			name:     "string key forces object",
			input:    Map{"a": int64(1)},
			expected: `{"a":1}`,
		},
		{
			name:     "zero based keys force object",
			input:    Map{"0": "a", "1": "b"},
			expected: `{"0":"a","1":"b"}`,
		},
		{
			name:     "non canonical decimal forces object",
			input:    Map{"01": "a", "2": "b"},
			expected: `{"01":"a","2":"b"}`,
		},
		{
			name:     "empty map is object",
			input:    Map{},
			expected: `{}`,
		},
		{
			name:     "single element sequence",
			input:    Map{"1": int64(9)},
			expected: `[9]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Encode(tt.input))
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEncodeObjectKeysSorted(t *testing.T) {
	m := Map{"zeta": int64(1), "alpha": int64(2), "mid": int64(3)}
	got := string(Encode(m))
	expected := `{"alpha":2,"mid":3,"zeta":1}`
	if got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestEncodeDepthCap(t *testing.T) {
	// Build nesting deeper than the cap; the innermost levels must
	// collapse to null instead of recursing forever.
	v := Value("leaf")
	for i := 0; i < maxDepth+5; i++ {
		v = []Value{v}
	}
	out := Encode(v)
	var decoded any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("depth-capped output is not valid JSON: %v", err)
	}
}

func TestEncodeUnencodableKinds(t *testing.T) {
	out := string(Encode(Map{"fn": func() {}, "ok": true}))
	expected := `{"fn":null,"ok":true}`
	if out != expected {
		t.Errorf("expected %s, got %s", expected, out)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	input := Map{
		"name":  "Central",
		"id":    int64(12),
		"ratio": 0.25,
		"live":  true,
		"none":  nil,
		"tags":  []Value{"a", "b"},
		"pos":   Map{"x": 1.5, "y": -2.0},
		"stops": Map{"1": "first", "2": "second"},
	}
	var decoded map[string]any
	if err := json.Unmarshal(Encode(input), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	expected := map[string]any{
		"name":  "Central",
		"id":    float64(12),
		"ratio": 0.25,
		"live":  true,
		"none":  nil,
		"tags":  []any{"a", "b"},
		"pos":   map[string]any{"x": 1.5, "y": -2.0},
		"stops": []any{"first", "second"},
	}
	if !reflect.DeepEqual(decoded, expected) {
		t.Errorf("round trip mismatch:\nexpected %#v\ngot      %#v", expected, decoded)
	}
}

func TestEncodeNaNInsideStructure(t *testing.T) {
	out := Encode([]Value{math.NaN(), 1.0})
	var decoded []any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded[0] != nil {
		t.Errorf("NaN should decode as null, got %v", decoded[0])
	}
	if decoded[1] != float64(1) {
		t.Errorf("expected 1, got %v", decoded[1])
	}
}

func TestEncodeLargeSequenceOrder(t *testing.T) {
	// Keys above 9 sort differently as strings than as integers; the
	// sequence path must use numeric order.
	m := Map{}
	for i := 1; i <= 12; i++ {
		m[strconv.Itoa(i)] = int64(i * 10)
	}
	var decoded []any
	if err := json.Unmarshal(Encode(m), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 12 {
		t.Fatalf("expected 12 elements, got %d", len(decoded))
	}
	for i, v := range decoded {
		if v != float64((i+1)*10) {
			t.Errorf("element %d: expected %d, got %v", i, (i+1)*10, v)
		}
	}
}
