package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hooks (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside a component render",
		Detail:   "UseState, UseEffect and UseModel may only be called from the synchronous body of a function component while it renders.",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed between renders",
		Detail:   "A component must call the same hooks in the same order on every render. Move conditional logic inside the hook callbacks.",
	},

	// ============================================
	// Rendering (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryRender,
		Message:  "Unsupported descriptor type",
		Detail:   "A descriptor type must be a tag name, the fragment marker or a component function.",
	},
	"E021": {
		Category: CategoryRender,
		Message:  "Mount target has no root",
		Detail:   "The target was never mounted or has already been unmounted.",
	},
	"E022": {
		Category: CategoryRender,
		Message:  "Live node does not belong to parent",
		Detail:   "The node passed to Diff is not a child of the given parent.",
	},

	// ============================================
	// Live sessions (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryProtocol,
		Message:  "WebSocket upgrade failed",
		Detail:   "The live endpoint could not upgrade the HTTP connection.",
	},
	"E061": {
		Category: CategoryProtocol,
		Message:  "Invalid client message",
		Detail:   "The client sent a frame that is not a valid live protocol message.",
	},
	"E062": {
		Category: CategoryProtocol,
		Message:  "Event target not found",
		Detail:   "The node referenced by a client event is not connected to the session document.",
	},
	"E063": {
		Category: CategoryProtocol,
		Message:  "Session task panicked",
		Detail:   "An event handler or render pass of a live session panicked. The session keeps running.",
	},

	// ============================================
	// Student registry (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryStorage,
		Message:  "Student not found",
	},
	"E081": {
		Category: CategoryValidation,
		Message:  "Invalid student",
	},
	"E082": {
		Category: CategoryStorage,
		Message:  "Student store unavailable",
	},

	// ============================================
	// Configuration (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration syntax",
		Detail:   "The configuration file could not be parsed as YAML or JSON.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Unknown store driver",
		Detail:   "store.driver must be one of memory, file, bolt or s3.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
