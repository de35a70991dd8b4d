package session

import (
	"reflect"
	"testing"
)

func f64(v float64) *float64 { return &v }

func sampleRecord() *Record {
	return &Record{
		Language: "en",
		Email:    "ada@example.com",
		Budget: &BudgetDraft{
			Step:            3,
			FirstName:       "Ada",
			Email:           "ada@example.com",
			Language:        "en",
			MonthlyIncome:   f64(150000),
			HousingExpenses: f64(30000),
			FoodExpenses:    f64(45000),
		},
		Flashes: []Flash{{Level: FlashSuccess, Message: "saved"}},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	var codec Codec

	encoded, err := codec.Encode(sampleRecord())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, sampleRecord()) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", decoded, sampleRecord())
	}
}

func TestCodecRoundTripEmptyRecord(t *testing.T) {
	var codec Codec
	encoded, err := codec.Encode(NewRecord())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !decoded.IsZero() {
		t.Fatalf("expected empty record, got %+v", decoded)
	}
}

func TestCodecRejectsCorruptPayloads(t *testing.T) {
	var codec Codec
	cases := map[string]string{
		"not hex":      "zzzz",
		"not zlib":     "deadbeef",
		"empty string": "",
	}
	for name, payload := range cases {
		if _, err := codec.Decode(payload); err == nil {
			t.Errorf("%s: Decode(%q) succeeded, want error", name, payload)
		}
	}
}
