package validator

import "testing"

type namedRequest struct {
	Name string `validate:"required,notblank,max=100"`
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	v := New()

	if err := v.Struct(namedRequest{Name: "   "}); err == nil {
		t.Fatal("expected whitespace-only name to fail validation")
	}
	if err := v.Struct(namedRequest{Name: "Screening"}); err != nil {
		t.Fatalf("expected valid name to pass, got %v", err)
	}
}

func TestNotBlankOnPointerField(t *testing.T) {
	v := New()
	type patch struct {
		Name *string `validate:"omitempty,notblank"`
	}

	if err := v.Struct(patch{}); err != nil {
		t.Fatalf("expected nil pointer to be skipped, got %v", err)
	}
	blank := "\t"
	if err := v.Struct(patch{Name: &blank}); err == nil {
		t.Fatal("expected blank pointer value to fail validation")
	}
}
