package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Component Errors (E200-E209)
	// ============================================

	"E201": {
		Category:   CategoryComponent,
		Message:    "No component name specified",
		Suggestion: "Bind a component name string, or a descriptor with a non-empty name field.",
		DocURL:     "https://vango.dev/docs/compose/errors/E201",
	},
	"E202": {
		Category:   CategoryComponent,
		Message:    "Unknown component",
		Suggestion: "Register the component in the catalog, or check the loader source for a typo.",
		DocURL:     "https://vango.dev/docs/compose/errors/E202",
	},
	"E203": {
		Category:   CategoryComponent,
		Message:    "Component has no template",
		Suggestion: "Give the definition a Template, or return a view-model implementing ComponentTemplate().",
		DocURL:     "https://vango.dev/docs/compose/errors/E203",
	},
	"E204": {
		Category: CategoryComponent,
		Message:  "View-model factory failed",
		DocURL:   "https://vango.dev/docs/compose/errors/E204",
	},
	"E205": {
		Category:   CategoryComponent,
		Message:    "Invalid component template",
		Suggestion: "Check the component's HTML template for markup the parser rejects.",
		DocURL:     "https://vango.dev/docs/compose/errors/E205",
	},

	// ============================================
	// Loader Errors (E210-E219)
	// ============================================

	"E210": {
		Category:   CategoryLoader,
		Message:    "Component load failed",
		Suggestion: "Check that the component source is reachable.",
		DocURL:     "https://vango.dev/docs/compose/errors/E210",
	},
	"E211": {
		Category: CategoryLoader,
		Message:  "Invalid component manifest",
		DocURL:   "https://vango.dev/docs/compose/errors/E211",
	},

	// ============================================
	// Binding Errors (E220-E239)
	// ============================================

	"E220": {
		Category:   CategoryBinding,
		Message:    "Unknown binding handler",
		Suggestion: "Register the handler on the binding.Handlers set before applying bindings.",
		DocURL:     "https://vango.dev/docs/compose/errors/E220",
	},
	"E221": {
		Category: CategoryBinding,
		Message:  "Invalid binding expression",
		DocURL:   "https://vango.dev/docs/compose/errors/E221",
	},
	"E222": {
		Category: CategoryBinding,
		Message:  "Invalid template options",
		DocURL:   "https://vango.dev/docs/compose/errors/E222",
	},
	"E223": {
		Category:   CategoryBinding,
		Message:    "Conflicting bindings",
		Suggestion: "Only one binding on a node may control its descendants. Wrap one of them in a container element.",
		DocURL:     "https://vango.dev/docs/compose/errors/E223",
	},

	// ============================================
	// Config Errors (E300-E319)
	// ============================================

	"E301": {
		Category:   CategoryConfig,
		Message:    "Invalid compose.json",
		Suggestion: "Check the file is valid JSON and matches the documented schema.",
		DocURL:     "https://vango.dev/docs/compose/errors/E301",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://vango.dev/docs/compose/errors/E302",
	},
	"E303": {
		Category:   CategoryConfig,
		Message:    "No compose.json found",
		Suggestion: "Run 'compose init' to create one, or pass --config with the directory containing it.",
		DocURL:     "https://vango.dev/docs/compose/errors/E303",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
