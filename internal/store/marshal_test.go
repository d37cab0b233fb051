package store

import (
	"testing"
)

func TestMarshalValue_NoHTMLEscaping(t *testing.T) {
	json, err := marshalValue(entry{Name: "<a&b>", Moment: 1})
	if err != nil {
		t.Fatalf("marshalValue() failed: %v", err)
	}
	expected := `{"name":"<a&b>","moment":1,"meta":{"source":""}}`
	if json != expected {
		t.Errorf("marshalValue() = %q, want %q", json, expected)
	}
}

func TestUnmarshalValue_LargeInteger(t *testing.T) {
	// 2^53 + 1 loses precision as float64
	largeInt := int64(9007199254740993)
	v, err := unmarshalValue[entry](`{"name":"x","moment":9007199254740993}`)
	if err != nil {
		t.Fatalf("unmarshalValue() failed: %v", err)
	}
	if v.Moment != largeInt {
		t.Errorf("Moment = %d, want %d (precision loss!)", v.Moment, largeInt)
	}
}

func TestUnmarshalValue_InvalidJSON(t *testing.T) {
	_, err := unmarshalValue[entry]("not valid json")
	if err == nil {
		t.Error("unmarshalValue() should fail on invalid JSON")
	}
}
