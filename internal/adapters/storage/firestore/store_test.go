package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/datagent/internal/domain"
)

func TestEntryDocConversion(t *testing.T) {
	sec := 2400.0
	in := domain.Entry{
		Role:      domain.RoleAssistant,
		Content:   "趋势如下",
		Timestamp: time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC),
		Kind:      domain.KindChart,
		Chart:     []domain.ChartPoint{{Label: "1月", Value: 4000, Secondary: &sec}},
	}

	doc := toEntryDoc(3, in)
	assert.Equal(t, 3, doc.Seq)
	assert.Equal(t, "chart", doc.Kind)
	assert.Equal(t, in, doc.toEntry())
}

func TestEntryKeySortsBySequence(t *testing.T) {
	assert.Equal(t, "000007", entryKey(7))
	assert.Less(t, entryKey(9), entryKey(10))
}
