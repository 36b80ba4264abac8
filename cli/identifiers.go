package main

import (
	"regexp"
	"strings"
)

// identifierRegex matches deployment/project names and IDs as well as
// deployment hostnames.
var identifierRegex = regexp.MustCompile(`^[a-z0-9_]+(?:[-.][a-z0-9_]+)*$`)

// normalizeIdentifier lowercases an identifier and strips any URL scheme and
// trailing slash so that a deployment URL pasted straight from a browser can
// be used as an identifier.
func normalizeIdentifier(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	identifier = strings.TrimPrefix(identifier, "https://")
	identifier = strings.TrimPrefix(identifier, "http://")
	return strings.TrimSuffix(identifier, "/")
}

func validIdentifier(identifier string) bool {
	return identifierRegex.MatchString(identifier)
}
