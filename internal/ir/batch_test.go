package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBatch_DecodeYAML(t *testing.T) {
	doc := `
handshakes:
  - timestamp: 1792065600000
    ephid: 000102030405060708090a0b0c0d0e0f
    tx_power_level: -8
    rssi: -67
    phy_primary: LE_1M
    phy_secondary: LE_2M
    timestamp_nanos: 1792065600000000000
known_cases:
  - day: 2026-10-14
    keys: [aabb, ccdd]
exposure_days:
  - report_date: 2026-10-10
`
	var b Batch
	require.NoError(t, yaml.Unmarshal([]byte(doc), &b))

	require.Len(t, b.Handshakes, 1)
	assert.Equal(t, byte(0x0f), b.Handshakes[0].EphID[15])
	assert.Equal(t, -67, b.Handshakes[0].RSSI)

	require.Len(t, b.KnownCases, 1)
	assert.Equal(t, MustParseDay("2026-10-14"), b.KnownCases[0].Day)
	assert.Equal(t, [][]byte{{0xaa, 0xbb}, {0xcc, 0xdd}}, b.KnownCases[0].RawKeys())

	require.Len(t, b.ExposureDays, 1)
	assert.Equal(t, MustParseDay("2026-10-10"), b.ExposureDays[0].ReportDate)

	assert.Empty(t, b.Contacts)
	assert.False(t, b.IsEmpty())
}

func TestBatch_IsEmpty(t *testing.T) {
	assert.True(t, Batch{}.IsEmpty())
	assert.False(t, Batch{ExposureDays: []ExposureDay{{}}}.IsEmpty())
}

func TestBatch_BadEphIDRejected(t *testing.T) {
	var b Batch
	err := yaml.Unmarshal([]byte("handshakes:\n  - ephid: abcd\n"), &b)
	require.Error(t, err)
}

func TestBatch_NormalizePhyLabels(t *testing.T) {
	b := Batch{Handshakes: []Handshake{
		{PrimaryPhy: " LE_1M ", SecondaryPhy: "e\u0301"},
		{PrimaryPhy: "LE_CODED"},
	}}

	b.NormalizePhyLabels()

	assert.Equal(t, "LE_1M", b.Handshakes[0].PrimaryPhy)
	assert.Equal(t, "\u00e9", b.Handshakes[0].SecondaryPhy)
	assert.Equal(t, "LE_CODED", b.Handshakes[1].PrimaryPhy)
	assert.Empty(t, b.Handshakes[1].SecondaryPhy)
}
