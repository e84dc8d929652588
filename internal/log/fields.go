package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDateKey    = "date_key"
	FieldCategory   = "category"
	FieldCategoryID = "category_id"
	FieldTracked    = "tracked"
	FieldTemplate   = "template"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentTracker  = "tracker"
	ComponentStore    = "store"
	ComponentEvents   = "events"
	ComponentSecurity = "security"
	ComponentTrace    = "trace"
	ComponentTemplate = "template"
)

// Operations defines standard operation names
const (
	OpToggle    = "toggle"
	OpNavigate  = "navigate"
	OpSaveMeals = "save_meals"
	OpAdd       = "add"
	OpEdit      = "edit"
	OpRemove    = "remove"
	OpRender    = "render"
	OpParse     = "parse"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message, skipping nil errors
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithDay adds the date key and, when set, the category name
func (f LogFields) WithDay(key, category string) LogFields {
	f[FieldDateKey] = key
	if category != "" {
		f[FieldCategory] = category
	}
	return f
}

// WithRequest adds the method, path and client address of an HTTP request
func (f LogFields) WithRequest(method, path, clientIP string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if clientIP != "" {
		f[FieldClientIP] = clientIP
	}
	return f
}

// WithStatus adds the response status and the elapsed time in milliseconds
func (f LogFields) WithStatus(code int, durationMs int64) LogFields {
	f[FieldStatusCode] = code
	f[FieldDuration] = durationMs
	return f
}

// With adds an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
