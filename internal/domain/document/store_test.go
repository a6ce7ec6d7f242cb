package document

import (
	"context"
	"testing"
)

func TestGetTreatsMalformedIDAsMissing(t *testing.T) {
	store := NewStore(nil)
	_, found, err := store.Get(context.Background(), "../../etc/passwd")
	if err != nil {
		t.Fatalf("expected no error for malformed id, got %v", err)
	}
	if found {
		t.Fatal("malformed id must never match a document")
	}
}
