package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldPath      = "path"
	FieldYear      = "year"
	FieldTool      = "tool"
	FieldModel     = "model"
	FieldTurn      = "turn"
	FieldRows      = "rows"
	FieldFiles     = "files"
	FieldInvalid   = "invalid_files"
	FieldDuration  = "duration_ms"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentAssistant = "assistant"
	ComponentHistory   = "history"
	ComponentSheets    = "sheets"
)
