package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list messages: %w", Storage(cause))
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("storage failure must not look like not found")
	}
	if Storage(nil) != nil {
		t.Fatalf("Storage(nil) should be nil")
	}
}
