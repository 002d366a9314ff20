package cmedit

import (
	"fmt"
	"strings"
)

// Mode selects which commands of a set are emitted.
type Mode string

const (
	ModeGet        Mode = "get"
	ModeSet        Mode = "set"
	ModeActivate   Mode = "activate"
	ModeDeactivate Mode = "deactivate"
	ModeVerify     Mode = "verify"
	ModeAll        Mode = "all"
)

// Modes lists the supported modes.
var Modes = []Mode{ModeGet, ModeSet, ModeActivate, ModeDeactivate, ModeVerify, ModeAll}

// ParseMode validates a mode name. An empty name means all.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAll, nil
	}
	for _, m := range Modes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return "", fmt.Errorf("unsupported cmedit mode %q (valid: %s)", s, strings.Join(names, ", "))
}

// Only returns a copy of s holding just the commands of mode. Reads cover
// both the grouped parameter reads and the per class wildcards.
func (s *CommandSet) Only(mode Mode) *CommandSet {
	if mode == ModeAll {
		return s
	}
	out := &CommandSet{Feature: s.Feature}
	switch mode {
	case ModeGet:
		out.Get, out.GetAll = s.Get, s.GetAll
	case ModeSet:
		out.Set = s.Set
	case ModeActivate:
		out.Activate = s.Activate
	case ModeDeactivate:
		out.Deactivate = s.Deactivate
	case ModeVerify:
		out.CheckState = s.CheckState
	}
	return out
}

// Empty reports whether the set holds no command at all.
func (s *CommandSet) Empty() bool {
	return len(s.Get) == 0 && len(s.GetAll) == 0 && len(s.Set) == 0 &&
		s.Activate == nil && s.Deactivate == nil && s.CheckState == nil
}
