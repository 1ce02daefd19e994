package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// Role enumerates staff roles. Roles gate nothing beyond what the source
// scope already restricts; they are carried for reporting.
type Role string

const (
	RoleRM    Role = "rm"
	RoleBM    Role = "bm"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether the role is one of the known values.
func ValidRole(r Role) bool {
	switch r {
	case RoleRM, RoleBM, RoleAdmin:
		return true
	}
	return false
}

// SourceScope is either the "all" sentinel or an explicit set of source
// channels the user may see.
type SourceScope struct {
	all bool
	set map[string]struct{}
}

// AllSources returns the unrestricted scope.
func AllSources() SourceScope {
	return SourceScope{all: true}
}

// SourceSet builds an explicit channel scope.
func SourceSet(channels ...string) SourceScope {
	set := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		ch = strings.TrimSpace(ch)
		if ch != "" {
			set[ch] = struct{}{}
		}
	}
	return SourceScope{set: set}
}

// ParseSourceScope parses the sheet representation: the case-insensitive
// sentinel "all", otherwise a comma separated channel list. Only the sentinel
// grants everything; a blank or separator-only cell is an explicit empty set
// and grants nothing.
func ParseSourceScope(raw string) SourceScope {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "all") {
		return AllSources()
	}
	return SourceSet(strings.Split(raw, ",")...)
}

// All reports whether the scope is unrestricted.
func (s SourceScope) All() bool {
	return s.all
}

// Allows reports whether the channel is visible under this scope.
func (s SourceScope) Allows(channel string) bool {
	if s.all {
		return true
	}
	_, ok := s.set[channel]
	return ok
}

// Channels returns the explicit channel set, sorted. Nil for the "all" scope.
func (s SourceScope) Channels() []string {
	if s.all {
		return nil
	}
	channels := make([]string, 0, len(s.set))
	for ch := range s.set {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	return channels
}

// String renders the sheet representation. An empty explicit set renders as
// "", which parses back to an empty set, never to the sentinel.
func (s SourceScope) String() string {
	if s.all {
		return "all"
	}
	return strings.Join(s.Channels(), ",")
}

// MarshalJSON renders the sheet representation, so cached snapshots and API
// responses agree with the Users column format.
func (s SourceScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the sheet representation.
func (s *SourceScope) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSourceScope(raw)
	return nil
}

// UserRecord is one row of the Users table. Records are append-only: the
// system never mutates or deletes them.
type UserRecord struct {
	StaffID   string
	Username  string
	Branch    string
	Role      Role
	Sources   SourceScope
	Active    bool
	CreatedAt string
}

// ParseActive coerces the sheet's free-form is_active cell to a boolean.
func ParseActive(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
