package domain

import (
	"encoding/json"
	"strings"
)

// HiddenDID marks a party the feed server chose not to reveal.
const HiddenDID = "did:none:HIDDEN"

func IsDID(value string) bool {
	parts := strings.SplitN(value, ":", 3)
	return len(parts) == 3 && parts[0] == "did" && parts[1] != "" && parts[2] != ""
}

func IsHiddenDID(value string) bool {
	return value == HiddenDID
}

// ContainsHiddenDID reports whether any string nested in raw is the hidden DID.
func ContainsHiddenDID(raw json.RawMessage) bool {
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return false
	}
	return containsString(node, HiddenDID)
}

func containsString(node any, target string) bool {
	switch value := node.(type) {
	case string:
		return value == target
	case map[string]any:
		for _, child := range value {
			if containsString(child, target) {
				return true
			}
		}
	case []any:
		for _, child := range value {
			if containsString(child, target) {
				return true
			}
		}
	}
	return false
}

// FirstAndLast3OfDID abbreviates a DID for display, e.g. "000...B51".
func FirstAndLast3OfDID(did string) string {
	switch {
	case strings.TrimSpace(did) == "":
		return "(BLANK)"
	case IsHiddenDID(did):
		return "(HIDDEN)"
	case !IsDID(did):
		return "(NOT_A_DID)"
	}

	parts := strings.SplitN(did, ":", 3)
	specific := parts[2]
	if parts[1] == "ethr" {
		specific = strings.TrimPrefix(specific, "0x")
	}
	if len(specific) <= 6 {
		return specific
	}
	return specific[:3] + "..." + specific[len(specific)-3:]
}
