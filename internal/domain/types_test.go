package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/datagent/internal/domain"
)

func TestParseMode(t *testing.T) {
	cases := map[string]domain.Mode{
		"query":      domain.ModeQuery,
		" Report ":   domain.ModeReport,
		"ANALYSIS":   domain.ModeAnalysis,
		"":           domain.ModeUnknown,
		"dashboards": domain.ModeUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, domain.ParseMode(in), "input %q", in)
	}
}
