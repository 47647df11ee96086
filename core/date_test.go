package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateMarshalEnvelope(t *testing.T) {
	d := NewDate(time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC))
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"$kind":"date","$value":"2025-03-14T09:26:53.589Z"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestDateRoundTrip(t *testing.T) {
	original := Now()
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Equal(original.Time) {
		t.Errorf("round trip changed the value: got %v, want %v", decoded, original)
	}
}

func TestDateRoundTripInsideStruct(t *testing.T) {
	type doc struct {
		CreatedAt Date  `json:"createdAt"`
		Viewed    *Date `json:"viewed,omitempty"`
	}
	viewed := NewDate(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	original := doc{CreatedAt: Now(), Viewed: &viewed}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded doc
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.CreatedAt.Equal(original.CreatedAt.Time) {
		t.Errorf("createdAt changed: got %v, want %v", decoded.CreatedAt, original.CreatedAt)
	}
	if decoded.Viewed == nil || !decoded.Viewed.Equal(viewed.Time) {
		t.Errorf("viewed changed: got %v, want %v", decoded.Viewed, viewed)
	}
}

func TestDateUnmarshalLegacyString(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-11-02T08:30:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	want := time.Date(2024, 11, 2, 8, 30, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestDateUnmarshalRejectsWrongKind(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`{"$kind":"blob","$value":"2024-11-02T08:30:00Z"}`), &d)
	if err == nil {
		t.Fatal("expected an error for a non-date envelope")
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatal("expected an error for an unparseable value")
	}
}

func TestNewDateTruncatesToMillis(t *testing.T) {
	d := NewDate(time.Date(2025, 1, 1, 0, 0, 0, 123_456_789, time.UTC))
	if d.Nanosecond() != 123_000_000 {
		t.Errorf("expected millisecond precision, got %d ns", d.Nanosecond())
	}
}
