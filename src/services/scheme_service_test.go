package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"mfportal/src/models"
	"mfportal/src/schemas"
	"mfportal/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeService(t *testing.T) {
	f := newFixture(t, "0", "23.1550")
	ctx := testContext()
	schemes := services.NewSchemeService(f.store.Schemes(), services.NewLocalSchemeCache(time.Minute))
	closed := f.addScheme(t, "Closed Fund", "999001", "12", false)

	t.Run("customers see active schemes only", func(t *testing.T) {
		active, err := schemes.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, f.scheme.ID, active[0].ID)

		all, err := schemes.List(ctx, true)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = schemes.Get(ctx, closed.ID, false)
		requireKind(t, err, services.KindNotFound, services.ReasonSchemeNotFound)
		got, err := schemes.Get(ctx, closed.ID, true)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("active listing is cached until a write", func(t *testing.T) {
		// a write that bypasses the service is not seen
		f.addScheme(t, "Sneaky Fund", "777", "5", true)
		cached, err := schemes.List(ctx, false)
		require.NoError(t, err)
		assert.Len(t, cached, 1)

		var req schemas.CreateSchemeRequest
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Gilt Fund", "scheme_code": "118989", "category": "Debt", "nav": "41.2"}`), &req))
		created, err := schemes.Create(ctx, req)
		require.NoError(t, err)
		assert.True(t, created.IsActive)
		assert.Equal(t, "41.2", created.NAV.String())

		fresh, err := schemes.List(ctx, false)
		require.NoError(t, err)
		assert.Len(t, fresh, 3)
	})

	t.Run("duplicate scheme code", func(t *testing.T) {
		_, err := schemes.Create(ctx, schemas.CreateSchemeRequest{
			Name: "Copy", SchemeCode: f.scheme.SchemeCode, Category: "Equity", NAV: "1",
		})
		requireKind(t, err, services.KindConflict, services.ReasonAlreadyExists)
	})

	t.Run("nav updates", func(t *testing.T) {
		updated, err := schemes.UpdateNAV(ctx, f.scheme.ID, schemas.NAVUpdateRequest{NAV: "24.0001"})
		require.NoError(t, err)
		assert.Equal(t, "24.0001", updated.NAV.String())

		for _, nav := range []schemas.DecimalString{"0", "-1", "1.12345", ""} {
			_, err := schemes.UpdateNAV(ctx, f.scheme.ID, schemas.NAVUpdateRequest{NAV: nav})
			requireKind(t, err, services.KindValidation, "")
		}

		_, err = schemes.SetNAV(ctx, 404, decimal.NewFromInt(1))
		requireKind(t, err, services.KindNotFound, services.ReasonSchemeNotFound)

		listed, err := schemes.List(ctx, false)
		require.NoError(t, err)
		for _, s := range listed {
			if s.ID == f.scheme.ID {
				assert.Equal(t, "24.0001", s.NAV.String())
			}
		}
	})

	t.Run("deactivate", func(t *testing.T) {
		inactive := false
		_, err := schemes.Update(ctx, f.scheme.ID, schemas.UpdateSchemeRequest{IsActive: &inactive})
		require.NoError(t, err)

		active, err := schemes.List(ctx, false)
		require.NoError(t, err)
		for _, s := range active {
			assert.NotEqual(t, f.scheme.ID, s.ID)
		}
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, schemes.Delete(ctx, closed.ID))
		err := schemes.Delete(ctx, closed.ID)
		requireKind(t, err, services.KindNotFound, services.ReasonSchemeNotFound)
	})
}

func TestLocalSchemeCacheExpires(t *testing.T) {
	ctx := testContext()
	cache := services.NewLocalSchemeCache(20 * time.Millisecond)

	_, ok := cache.GetActive(ctx)
	assert.False(t, ok)

	cache.SetActive(ctx, []models.MutualFundScheme{{ID: 1}})
	got, ok := cache.GetActive(ctx)
	require.True(t, ok)
	assert.Len(t, got, 1)

	time.Sleep(40 * time.Millisecond)
	_, ok = cache.GetActive(ctx)
	assert.False(t, ok)

	cache.SetActive(ctx, []models.MutualFundScheme{{ID: 1}})
	cache.Invalidate(ctx)
	_, ok = cache.GetActive(ctx)
	assert.False(t, ok)
}
