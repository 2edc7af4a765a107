package node

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsResponseFormatUnsupportedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "response_format rejected", err: errors.New("Invalid parameter: response_format is not supported"), want: true},
		{name: "json_schema rejected", err: errors.New("json_schema mode unavailable for this model"), want: true},
		{name: "unknown parameter response", err: errors.New("unknown parameter: 'response.format'"), want: true},
		{name: "wrapped error", err: fmt.Errorf("call failed: %w", errors.New("response_format unsupported")), want: true},
		{name: "unrelated error", err: errors.New("connection refused"), want: false},
		{name: "rate limit", err: errors.New("429 too many requests"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsResponseFormatUnsupportedError(tt.err))
		})
	}
}
