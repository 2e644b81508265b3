// Package i18n localizes the progress lines printed to the terminal.
package i18n

import (
	"embed"
	"log/slog"
	"os"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var messageFiles = []string{"active.en.toml", "active.fr.toml", "active.es.toml", "active.de.toml"}

// Message IDs.
const (
	MsgRenderingLocale = "RenderingLocale"
	MsgRenderSkipped   = "RenderSkipped"
	MsgWroteFile       = "WroteFile"
	MsgRunDone         = "RunDone"
	MsgWatching        = "Watching"
	MsgChangeDetected  = "ChangeDetected"
	MsgScheduledRun    = "ScheduledRun"
)

// Translator renders progress messages in one UI language.
type Translator struct {
	localizer *i18n.Localizer
	lang      language.Tag
}

// NewTranslator builds a Translator for lang, falling back to English for
// unknown languages and missing messages.
func NewTranslator(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range messageFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			slog.Warn("i18n: failed to load message file", "file", file, "error", err)
		}
	}

	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Translator{
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		lang:      tag,
	}
}

// Language returns the UI language the translator was built for.
func (t *Translator) Language() language.Tag { return t.lang }

// T renders the message id with data. Unknown ids render as the id itself.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug("i18n: localize failed", "id", id, "error", err)
		return id
	}
	return msg
}

// Plural renders a message with a plural count, exposed to the template as
// .Count.
func (t *Translator) Plural(id string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Count"] = count
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
		PluralCount:  count,
	})
	if err != nil {
		slog.Debug("i18n: localize failed", "id", id, "error", err)
		return id
	}
	return msg
}

// LanguageFromEnv derives a UI language from LC_ALL, LC_MESSAGES or LANG
// ("fr_FR.UTF-8" becomes "fr-FR"). It returns "en" when none is set.
func LanguageFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en"
}
