package throttle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateBaseKey(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		expectError bool
	}{
		{name: "empty is allowed (no namespace)", key: "", expectError: false},
		{name: "alphanumeric", key: "api123", expectError: false},
		{name: "punctuation set", key: "api_v1-prod:eu.west@1+2", expectError: false},
		{name: "space not allowed", key: "has a space", expectError: true},
		{name: "too long", key: strings.Repeat("a", baseKeyMaxLen+1), expectError: true},
		{name: "exactly max length", key: strings.Repeat("a", baseKeyMaxLen), expectError: false},
		{name: "non-ASCII not allowed", key: "café", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBaseKey(tt.key)
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
