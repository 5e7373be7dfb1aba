// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data types shared by the convo stages: the
// conversation Message, its Role, and the per-command configuration values.
package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role identifies the speaker of a message. Only RoleUser and RoleAssistant
// are valid.
type Role string

const (
	RoleUser      Role = "User"
	RoleAssistant Role = "Assistant"
)

// Roles lists the accepted roles in canonical casing.
var Roles = []Role{RoleUser, RoleAssistant}

// Valid reports whether r is one of the two accepted roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Class returns the lowercase form used as a CSS class and file name part.
func (r Role) Class() string {
	return strings.ToLower(string(r))
}

func (r Role) String() string { return string(r) }

// MatchMode controls how strictly a role label is compared against the
// accepted roles.
type MatchMode string

const (
	// MatchExact requires the whole label to equal a role name, ignoring case.
	MatchExact MatchMode = "exact"
	// MatchPrefix accepts any label that starts with a role name, ignoring
	// case, so "assistantxyz" matches Assistant.
	MatchPrefix MatchMode = "prefix"
)

// ParseMatchMode converts a configuration string into a MatchMode. An empty
// string selects MatchExact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case MatchExact, "":
		return MatchExact, nil
	case MatchPrefix:
		return MatchPrefix, nil
	default:
		return "", fmt.Errorf("unknown match mode %q: use exact or prefix", s)
	}
}

// MatchRole resolves a role label (already stripped of its colon) to a Role.
// The second return value is false when the label names no accepted role.
func MatchRole(label string, mode MatchMode) (Role, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}

	if mode == MatchPrefix {
		lower := strings.ToLower(label)
		for _, r := range Roles {
			if strings.HasPrefix(lower, r.Class()) {
				return r, true
			}
		}
		return "", false
	}

	r := Role(cases.Title(language.English).String(label))
	if r.Valid() {
		return r, true
	}
	return "", false
}

// ParseTargetRole parses an operator-supplied role choice: "user" or "u",
// "assistant" or "a", in any case.
func ParseTargetRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "user":
		return RoleUser, nil
	case "a", "assistant":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("invalid role %q: enter 'user' or 'assistant' (or just 'u' or 'a')", s)
	}
}

// Message is one role-tagged turn of a conversation. Content is trimmed of
// surrounding whitespace; internal line breaks are kept.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}
