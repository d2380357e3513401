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
	// Config Errors (F100-F119)
	// ============================================

	"F100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No flight.json was found. Flags and defaults are used when no file is given.",
	},
	"F101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "flight.json could not be read or is not valid JSON.",
	},
	"F102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range or inconsistent with another value.",
	},

	// ============================================
	// Content Errors (F120-F139)
	// ============================================

	"F120": {
		Category: CategoryContent,
		Message:  "Posts directory not found",
		Detail:   "The directory holding post files does not exist or is not a directory.",
	},
	"F121": {
		Category: CategoryContent,
		Message:  "Content bucket unavailable",
		Detail:   "Posts could not be listed from the configured S3 bucket.",
	},
	"F122": {
		Category: CategoryContent,
		Message:  "Post not found",
		Detail:   "No post exists for the requested path.",
	},

	// ============================================
	// Render Errors (F140-F159)
	// ============================================

	"F140": {
		Category: CategoryRender,
		Message:  "Component failed",
		Detail:   "A component returned an error while the page tree was being resolved.",
	},
	"F141": {
		Category: CategoryRender,
		Message:  "Markup rendering failed",
		Detail:   "The resolved tree contains a tag, attribute or value that cannot be written as HTML.",
	},

	// ============================================
	// Protocol Errors (F160-F179)
	// ============================================

	"F160": {
		Category: CategoryProtocol,
		Message:  "Wire encoding failed",
		Detail:   "The resolved tree contains a value that has no wire form.",
	},
	"F161": {
		Category: CategoryProtocol,
		Message:  "Invalid wire payload",
		Detail:   "The payload is not a valid element tree in the wire format.",
	},

	// ============================================
	// Navigation Errors (F180-F199)
	// ============================================

	"F180": {
		Category: CategoryNavigation,
		Message:  "Navigation failed",
		Detail:   "The page could not be fetched from the server. The current view is unchanged.",
	},
	"F181": {
		Category: CategoryNavigation,
		Message:  "Invalid link target",
		Detail:   "Only links to paths on the same origin can be followed.",
	},

	// ============================================
	// Server Errors (F200-F219)
	// ============================================

	"F200": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The HTTP server could not listen on the configured address.",
	},
	"F201": {
		Category: CategoryServer,
		Message:  "Upstream unavailable",
		Detail:   "The upstream flight server could not be reached.",
	},
	"F202": {
		Category: CategoryServer,
		Message:  "File watcher failed",
		Detail:   "Watching files for live reload failed.",
	},

	// ============================================
	// CLI Errors (F220-F239)
	// ============================================

	"F220": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with missing or conflicting arguments.",
	},
	"F221": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "flight init only knows the templates listed by --help.",
	},
	"F222": {
		Category: CategoryCLI,
		Message:  "Project already exists",
		Detail:   "flight init does not overwrite existing files.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
