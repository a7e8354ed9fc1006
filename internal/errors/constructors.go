package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *FrameError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *FrameError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file could not be parsed").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *FrameError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func UnknownModule(name string, position int) *FrameError {
	return New(CategoryConfig, SeverityFatal, "unknown module").
		WithContext("module", name).
		WithContext("position", position)
}

// Pass pipeline errors

func ModuleFault(name string, position int, cause error) *FrameError {
	return WrapRetryable(cause, CategoryModule, SeverityWarning, "module failed to produce bitmaps").
		WithContext("module", name).
		WithContext("position", position)
}

func CompositionFault(stage string, cause error) *FrameError {
	return WrapRetryable(cause, CategoryComposition, SeverityError, "composition failed").
		WithContext("stage", stage)
}

func DriverFault(operation string, cause error) *FrameError {
	return WrapRetryable(cause, CategoryDriver, SeverityError, "panel driver failed").
		WithContext("operation", operation)
}

func FilesystemError(operation, path string, cause error) *FrameError {
	return Wrap(cause, CategoryFileSystem, SeverityError, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *FrameError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
