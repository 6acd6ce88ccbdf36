package ratelimit

import (
	"net/http"
	"strings"
)

// healthPath is never limited.
const healthPath = "/health"

// MatchEndpoint finds the rule for a request. An exact path wins over a prefix
// rule, which is any rule whose path ends in "/". GET /health matches an
// unlimited rule.
func MatchEndpoint(path, method string, rules []EndpointConfig) (EndpointConfig, bool) {
	if path == healthPath && method == http.MethodGet {
		return EndpointConfig{Path: healthPath, Method: method}, true
	}

	var prefix *EndpointConfig
	for i := range rules {
		rule := &rules[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return *rule, true
		}
		if prefix == nil && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			prefix = rule
		}
	}
	if prefix != nil {
		return *prefix, true
	}
	return EndpointConfig{}, false
}
