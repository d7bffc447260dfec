package main

import (
	"errors"
	"testing"
)

func TestWrapOperationError(t *testing.T) {
	base := errors.New("permission denied")
	err := WrapOperationError("create output directory", base)
	if err.Error() != "failed to create output directory: permission denied" {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to the original")
	}

	if WrapOperationError("anything", nil) != nil {
		t.Error("nil error should pass through as nil")
	}
}

func TestWrapOperationErrorf(t *testing.T) {
	base := errors.New("disk full")
	err := WrapOperationErrorf("write export file %s", base, "report.pdf")
	if err.Error() != "failed to write export file report.pdf: disk full" {
		t.Errorf("message = %q", err.Error())
	}
	if WrapOperationErrorf("write %s", nil, "x") != nil {
		t.Error("nil error should pass through as nil")
	}
}
