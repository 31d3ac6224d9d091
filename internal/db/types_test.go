package db

import (
	"reflect"
	"testing"
)

func TestStringSliceRoundTrip(t *testing.T) {
	t.Parallel()

	in := StringSlice{"Mumbai Indians beat CSK", "Apple launches iPhone 16"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}

	var out StringSlice
	if err := out.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip mismatch: got %v want %v", out, in)
	}
}

func TestStringSliceNil(t *testing.T) {
	t.Parallel()

	var s StringSlice
	v, err := s.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if v.(string) != "[]" {
		t.Fatalf("nil slice should marshal to empty array, got %q", v)
	}

	var out StringSlice
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) returned error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("Scan(nil) should yield empty slice, got %v", out)
	}
}
