package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/retention"
	"github.com/roach88/contactstore/internal/store"
)

func TestDB_ApplyBatch(t *testing.T) {
	db := newTestDB(t, retention.DefaultPolicy())

	b := ir.Batch{
		Handshakes: []ir.Handshake{handshakeOn(today, 1), handshakeOn(today, 2)},
		Contacts:   []ir.Contact{{Date: today, EphID: ephID(1), WindowCount: 2}},
		KnownCases: []ir.KnownCaseDay{
			{Day: today, Keys: []ir.HexBytes{{1}, {2}, {3}}},
			{Day: today.AddDays(-1), Keys: []ir.HexBytes{{4}}},
		},
		ExposureDays: []ir.ExposureDay{{ReportDate: today}},
	}

	counts, err := db.Apply(waitCtx(t), b)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{Handshakes: 2, Contacts: 1, KnownCases: 4, ExposureDays: 1}, counts)

	stored, err := db.Counts(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, counts, stored)

	ks, err := db.KnownCases(waitCtx(t))
	require.NoError(t, err)
	require.Len(t, ks, 4)
	assert.Equal(t, ir.HexBytes{4}, ks[3].Key)
	assert.Equal(t, today.AddDays(-1), ks[3].Day)
}

func TestDB_ApplyEmptyBatch(t *testing.T) {
	db := newTestDB(t, retention.DefaultPolicy())

	counts, err := db.Apply(waitCtx(t), ir.Batch{})
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Total())
}
