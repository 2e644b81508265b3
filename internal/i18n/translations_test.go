package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_English(t *testing.T) {
	tr := NewTranslator("en")
	assert.Equal(t, "Rendering CV for locale: fr", tr.T(MsgRenderingLocale, map[string]any{"Locale": "fr"}))
}

func TestTranslator_French(t *testing.T) {
	tr := NewTranslator("fr-FR")
	assert.Equal(t, "Génération du CV pour la langue : es", tr.T(MsgRenderingLocale, map[string]any{"Locale": "es"}))
}

func TestTranslator_FallsBackToEnglish(t *testing.T) {
	// German has no ScheduledRun message.
	de := NewTranslator("de")
	assert.Equal(t, "Scheduled re-render of cv.yaml", de.T(MsgScheduledRun, map[string]any{"Path": "cv.yaml"}))

	unknown := NewTranslator("not a tag!")
	assert.Equal(t, "en", unknown.Language().String())
	assert.Equal(t, "Wrote a.yaml", unknown.T(MsgWroteFile, map[string]any{"File": "a.yaml"}))
}

func TestTranslator_UnknownID(t *testing.T) {
	assert.Equal(t, "NoSuchMessage", NewTranslator("en").T("NoSuchMessage", nil))
}

func TestTranslator_Plural(t *testing.T) {
	tr := NewTranslator("en")
	assert.Equal(t, "Done: 1 locale processed", tr.Plural(MsgRunDone, 1, nil))
	assert.Equal(t, "Done: 3 locales processed", tr.Plural(MsgRunDone, 3, nil))
}

func TestLanguageFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "fr_FR.UTF-8")
	assert.Equal(t, "fr-FR", LanguageFromEnv())

	t.Setenv("LC_ALL", "C")
	t.Setenv("LANG", "")
	assert.Equal(t, "en", LanguageFromEnv())

	t.Setenv("LC_MESSAGES", "de_DE@euro")
	assert.Equal(t, "de-DE", LanguageFromEnv())
}
