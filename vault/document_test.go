package vault_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/vault"
)

func strPtr(s string) *string { return &s }

func TestDefaultDocument(t *testing.T) {
	d := vault.DefaultDocument()

	assert.Equal(t, "40", d.OTThreshold)
	assert.Equal(t, "400.00", d.GroceryBudget)
	assert.NotNil(t, d.TaxedStores)
}

func TestSettingsRoundTrip(t *testing.T) {
	d := vault.DefaultDocument()
	d.HourlyRate = "25.00"
	d.CycleStart = "2026-01-05"
	d.TaxedStores = map[string]bool{"Other": true}

	settings := d.Settings()
	assert.Equal(t, "25.00", settings.HourlyRate)
	assert.Equal(t, "2026-01-05", settings.CycleStart)
	assert.True(t, settings.TaxedStores["Other"])

	var back vault.Document
	back.SetSettings(settings)
	assert.Equal(t, d.HourlyRate, back.HourlyRate)
	assert.Equal(t, d.CycleStart, back.CycleStart)
	assert.Equal(t, d.TaxedStores, back.TaxedStores)
}

func TestApplySettings_FieldWiseLastWriteWins(t *testing.T) {
	// GIVEN: A stored document and a sparse patch touching two fields
	// WHEN: Applying the patch
	// THEN: Patched fields win, untouched fields keep the stored value

	d := vault.DefaultDocument()
	d.UserName = "Sam"
	d.HourlyRate = "25.00"
	d.TaxRate = "12"

	d.ApplySettings(vault.SettingsPatch{
		HourlyRate: strPtr("27.50"),
		TaxRate:    strPtr("13"),
	})

	assert.Equal(t, "27.50", d.HourlyRate)
	assert.Equal(t, "13", d.TaxRate)
	assert.Equal(t, "Sam", d.UserName)
	assert.Equal(t, "40", d.OTThreshold)
}

func TestApplySettings_ExplicitEmptyOverwrites(t *testing.T) {
	// A present-but-empty field is a write, not an absence.
	d := vault.DefaultDocument()
	d.UserName = "Sam"

	d.ApplySettings(vault.SettingsPatch{UserName: strPtr("")})
	assert.Equal(t, "", d.UserName)
}

func TestSettingsPatch_DecodesSparseJSON(t *testing.T) {
	var patch vault.SettingsPatch
	require.NoError(t, json.Unmarshal([]byte(`{"hourlyRate":"30","taxedStores":{"Costco":true}}`), &patch))

	require.NotNil(t, patch.HourlyRate)
	assert.Equal(t, "30", *patch.HourlyRate)
	require.NotNil(t, patch.TaxedStores)
	assert.True(t, (*patch.TaxedStores)["Costco"])
	assert.Nil(t, patch.UserName)

	assert.ElementsMatch(t, []string{"hourlyRate", "taxedStores"}, patch.Fields())
}
