package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	f, unknown := ParseFlags([]string{"system", " UPDATED_SYSTEM ", "debuggable"})
	assert.True(t, f.Has(FlagSystem))
	assert.True(t, f.Has(FlagUpdatedSystemApp))
	assert.Equal(t, []string{"debuggable"}, unknown)
	assert.Equal(t, []string{"system", "updated_system"}, f.Names())
}

func TestFlags_Independent(t *testing.T) {
	f := FlagUpdatedSystemApp
	assert.False(t, f.Has(FlagSystem))
	assert.Empty(t, Flags(0).Names())
}

func TestUninstallRequest(t *testing.T) {
	req := NewUninstallRequest("com.example.app")
	assert.Equal(t, ActionUninstallPackage, req.Action)
	assert.Equal(t, "package:com.example.app", req.URI)
	assert.Equal(t, "com.example.app", req.PackageID())
	assert.Equal(t, "", UninstallRequest{URI: "file:/x"}.PackageID())
}
