package main

import "fmt"

// WrapOperationError gives an error the uniform "failed to <operation>"
// prefix used by the file-handling paths of the export pipeline.
func WrapOperationError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// WrapOperationErrorf is WrapOperationError with a formatted operation name.
func WrapOperationErrorf(format string, err error, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", fmt.Sprintf(format, args...), err)
}
