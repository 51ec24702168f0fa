// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of account kinds
type Role int

const (
	RoleUser Role = iota + 1
	RoleSponsor
	RoleAdmin
)

// ParseRole converts the stored role name into a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "sponsor":
		return RoleSponsor, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleSponsor:
		return "sponsor"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CanVote reports whether the role may submit votes. Only plain users vote.
func (r Role) CanVote() bool {
	return r == RoleUser
}

// CanCreateSurveys reports whether the role may publish surveys
func (r Role) CanCreateSurveys() bool {
	return r == RoleSponsor || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsSponsor() bool {
	return r == RoleSponsor
}
