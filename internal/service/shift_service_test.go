package service

import (
	"testing"

	"mekarsari-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenShift(t *testing.T) {
	f := newFixture(t)
	kasir := f.seedCashier(t, "sari")

	session, err := f.shift.OpenShift(kasir.ID, dec(t, "100000"))
	require.NoError(t, err)
	assert.True(t, session.IsOpen())
	assert.True(t, session.TotalSystem.IsZero())

	// Second open while one is active is a conflict
	_, err = f.shift.OpenShift(kasir.ID, dec(t, "50000"))
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = f.shift.OpenShift(kasir.ID, dec(t, "-1"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCloseShiftDifference(t *testing.T) {
	f := newFixture(t)
	kasir := f.seedCashier(t, "sari")

	session, err := f.shift.OpenShift(kasir.ID, dec(t, "100000"))
	require.NoError(t, err)

	// Credit 250000 of sales to the shift
	err = f.db.Transaction(func(tx *gorm.DB) error {
		return recordSettlement(tx, f.sessionRepo, session.ID, dec(t, "250000"))
	})
	require.NoError(t, err)

	// Drawer holds 340000: expected 350000, so 10000 missing
	summary, err := f.shift.CloseShift(kasir.ID, dec(t, "340000"))
	require.NoError(t, err)

	assert.True(t, summary.TotalSystem.Equal(dec(t, "250000")))
	assert.True(t, summary.Expected.Equal(dec(t, "350000")))
	assert.True(t, summary.Difference.Equal(dec(t, "-10000")), "difference = %s", summary.Difference)

	// Shift is closed now
	active, err := f.shift.ActiveSession(kasir.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestCloseShiftWithoutOpen(t *testing.T) {
	f := newFixture(t)
	kasir := f.seedCashier(t, "sari")

	_, err := f.shift.CloseShift(kasir.ID, dec(t, "0"))
	assert.True(t, apperr.IsKind(err, apperr.KindState))
}

func TestSettlementAccumulates(t *testing.T) {
	f := newFixture(t)
	kasir := f.seedCashier(t, "sari")

	session, err := f.shift.OpenShift(kasir.ID, dec(t, "0"))
	require.NoError(t, err)

	for _, amount := range []string{"15000", "20000", "-5000"} {
		err = f.db.Transaction(func(tx *gorm.DB) error {
			return recordSettlement(tx, f.sessionRepo, session.ID, dec(t, amount))
		})
		require.NoError(t, err)
	}

	reloaded, err := f.sessionRepo.FindByID(session.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.TotalSystem.Equal(dec(t, "30000")), "total = %s", reloaded.TotalSystem)
}

func TestShiftsAreIndependentPerCashier(t *testing.T) {
	f := newFixture(t)
	sari := f.seedCashier(t, "sari")
	dewi := f.seedCashier(t, "dewi")

	_, err := f.shift.OpenShift(sari.ID, dec(t, "50000"))
	require.NoError(t, err)

	// Dewi can open her own shift while Sari's is active
	_, err = f.shift.OpenShift(dewi.ID, dec(t, "75000"))
	require.NoError(t, err)

	summary, err := f.shift.CloseShift(dewi.ID, dec(t, "75000"))
	require.NoError(t, err)
	assert.True(t, summary.Difference.IsZero())

	// Sari's shift is still open
	active, err := f.shift.ActiveSession(sari.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.True(t, active.IsOpen())
}
