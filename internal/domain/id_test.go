package domain

import (
	"encoding/json"
	"testing"
)

func TestPackHandle(t *testing.T) {
	tests := []struct {
		name    string
		typ     ObjectType
		entry   Entry
		counter uint32
	}{
		{"creature", TypeCreature, 44615, 1},
		{"player", TypePlayer, 0, 42},
		{"max counter", TypeCreature, 44636, 0xFFFFFFFF},
		{"max entry", TypeCreature, maskEntry, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := PackHandle(tt.typ, tt.entry, tt.counter)
			if h.Type() != tt.typ {
				t.Errorf("Type() = %d, want %d", h.Type(), tt.typ)
			}
			if h.Entry() != tt.entry {
				t.Errorf("Entry() = %d, want %d", h.Entry(), tt.entry)
			}
			if h.Counter() != tt.counter {
				t.Errorf("Counter() = %d, want %d", h.Counter(), tt.counter)
			}
			if h.IsEmpty() {
				t.Error("packed handle should not be empty")
			}
		})
	}
}

func TestHandle_JSON(t *testing.T) {
	h := PackHandle(TypeCreature, 44629, 99)

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if data[0] != '"' {
		t.Errorf("Expected quoted string, got %s", data)
	}

	var back Handle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back != h {
		t.Errorf("Unmarshal got %v, want %v", back, h)
	}

	// Числовая форма тоже принимается
	if err := json.Unmarshal([]byte("12"), &back); err != nil || back != 12 {
		t.Errorf("Expected numeric form to parse, got %v (%v)", back, err)
	}
}

func TestParseHandle_Invalid(t *testing.T) {
	if _, err := ParseHandle("abc"); err == nil {
		t.Error("Expected error for non-numeric handle")
	}
}

func TestHandle_KeyParse(t *testing.T) {
	h := PackHandle(TypePlayer, 0, 3)
	got, err := ParseHandle(h.Key())
	if err != nil || got != h {
		t.Errorf("ParseHandle(Key()) = %v, %v; want %v", got, err, h)
	}
	if _, err := ParseHandle("[1:0:3]"); err == nil {
		t.Error("display form must not parse")
	}
}
