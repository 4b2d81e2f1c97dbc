package parser

// Scope names recognized by the scope-aware failure path. The scope selects
// the suggestion vocabulary and, for some scopes, a specialized column
// heuristic for placing the caret.
const (
	ScopeOuter     = "outer"
	ScopeService   = "service"
	ScopeInterface = "interface"
	ScopeInputPort = "inputPort"
	ScopeExecution = "execution"
	ScopeImport    = "import"
)

// scopeKeywords lists the terms that may legally open a construct in each
// scope. Slices keep suggestion output deterministic.
var scopeKeywords = map[string][]string{
	ScopeOuter: {
		"from", "import", "include", "service", "interface", "type",
		"define", "main", "execution", "cset", "constants",
	},
	ScopeService: {
		"execution", "inputPort", "outputPort", "embed", "main", "init",
		"define",
	},
	ScopeInputPort: {
		"location", "protocol", "interfaces", "aggregates", "redirects",
		"OneWay", "RequestResponse",
	},
	ScopeInterface: {
		"OneWay", "RequestResponse", "Notification", "SolicitResponse",
	},
	ScopeExecution: {
		"concurrent", "sequential", "single",
	},
	ScopeImport: {
		"from", "import",
	},
}

// KeywordsForScope returns the suggestion vocabulary for a scope, or nil when
// the scope has no registered vocabulary.
func KeywordsForScope(scope string) []string {
	return scopeKeywords[scope]
}
