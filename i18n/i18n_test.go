package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_FallsBackToKey(t *testing.T) {
	Init("en")
	assert.Equal(t, "Remapping started", T("Remapping started"))
	assert.Equal(t, "never translated", T("never translated"))
}

func TestT_ForcedLanguage(t *testing.T) {
	t.Cleanup(func() { Init("en") })

	Init("  pt ")
	assert.Equal(t, "pt", GetLang())
	assert.Equal(t, "Remapeamento iniciado", T("Remapping started"))

	Init("de")
	assert.Equal(t, "Not running", T("Not running"))
}
