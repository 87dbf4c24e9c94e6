package extjson

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mondoc/mondoc/data"
	"github.com/mondoc/mondoc/oid"
)

func TestRoundTrip(t *testing.T) {
	id := oid.New()
	ts := time.Date(2024, 5, 1, 12, 30, 45, 123*1e6, time.UTC)
	dec, err := data.ParseDecimal128("19.99")
	if err != nil {
		t.Fatalf("parse decimal: %v", err)
	}
	doc := map[string]any{
		"_id":     id,
		"when":    ts,
		"price":   dec,
		"count":   int64(42),
		"ratio":   0.5,
		"title":   "x",
		"flag":    true,
		"nothing": nil,
		"tags":    []any{"a", int64(2)},
		"nested":  map[string]any{"inner": id},
	}

	b, err := Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, ok := back.(map[string]any)
	if !ok {
		t.Fatalf("want a document, got %T", back)
	}

	if got["_id"] != id {
		t.Fatalf("id lost: %v", got["_id"])
	}
	if w, ok := got["when"].(time.Time); !ok || !w.Equal(ts) {
		t.Fatalf("timestamp lost: %v", got["when"])
	}
	if d, ok := got["price"].(data.Decimal128); !ok || d.String() != "19.99" {
		t.Fatalf("decimal lost: %v", got["price"])
	}
	if got["count"] != int64(42) {
		t.Fatalf("int64 lost: %T %v", got["count"], got["count"])
	}
	if got["ratio"] != 0.5 || got["title"] != "x" || got["flag"] != true || got["nothing"] != nil {
		t.Fatalf("plain scalars lost: %v", got)
	}
	if diff := cmp.Diff([]any{"a", int64(2)}, got["tags"]); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if inner := got["nested"].(map[string]any)["inner"]; inner != id {
		t.Fatalf("nested id lost: %v", inner)
	}
}

func TestOrdinarySingleKeyDocumentsSurvive(t *testing.T) {
	b, err := Marshal(map[string]any{"only": "v"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.(map[string]any)["only"] != "v" {
		t.Fatalf("single-key document mangled: %v", back)
	}
}

func TestUnmarshalRejectsMalformedTags(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"x":{"$uuid":"junk"}}`)); err == nil {
		t.Fatalf("bad $uuid must fail")
	}
	if _, err := Unmarshal([]byte(`{"x":{"$numberLong":"abc"}}`)); err == nil {
		t.Fatalf("bad $numberLong must fail")
	}
	if _, err := Unmarshal([]byte(`{"x":{"$date":17}}`)); err == nil {
		t.Fatalf("non-string $date must fail")
	}
}

func TestMarshalRejectsUnsupportedTypes(t *testing.T) {
	if _, err := Marshal(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatalf("unsupported values must be rejected up front")
	}
}
