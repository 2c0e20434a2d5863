package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contactstore/internal/ir"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 21, p.DataDays)
	assert.Equal(t, 10, p.ExposureDays)
	require.NoError(t, p.Validate())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr string
	}{
		{"one day each", Policy{DataDays: 1, ExposureDays: 1}, ""},
		{"zero data", Policy{DataDays: 0, ExposureDays: 10}, "data retention"},
		{"negative exposure", Policy{DataDays: 21, ExposureDays: -1}, "exposure retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPolicy_Cutoffs(t *testing.T) {
	p := Policy{DataDays: 21, ExposureDays: 10}
	now := time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)

	c := p.Cutoffs(now)

	assert.Equal(t, ir.MustParseDay("2026-09-25"), c.Handshakes)
	assert.Equal(t, ir.MustParseDay("2026-09-25"), c.Contacts)
	assert.Equal(t, ir.MustParseDay("2026-09-25"), c.KnownCases)
	assert.Equal(t, ir.MustParseDay("2026-10-06"), c.ExposureDays)
}

func TestPolicy_CutoffsSingleDayWindow(t *testing.T) {
	p := Policy{DataDays: 1, ExposureDays: 1}

	c := p.Cutoffs(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, ir.MustParseDay("2026-10-15"), c.Handshakes)
	assert.Equal(t, ir.MustParseDay("2026-10-15"), c.ExposureDays)
}

func TestPolicy_CutoffsUseUTCDay(t *testing.T) {
	p := Policy{DataDays: 2, ExposureDays: 2}
	// 01:00 on the 16th in UTC+3 is still the 15th in UTC.
	zone := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, 10, 16, 1, 0, 0, 0, zone)

	c := p.Cutoffs(now)

	assert.Equal(t, ir.MustParseDay("2026-10-14"), c.Handshakes)
}
