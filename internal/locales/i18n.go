// Package locales loads the bot's reply texts and resolves them per user language.
package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

//go:embed *.json
var localeFS embed.FS

var (
	bundle          *i18n.Bundle
	defaultLanguage language.Tag // Store the parsed default language tag
)

// Init initializes the i18n bundle by loading language files and setting the default language.
func Init(defaultLangCode string) error {
	var err error
	defaultLanguage, err = language.Parse(defaultLangCode)
	if err != nil {
		log.Warn().Err(err).Str("language", defaultLangCode).Msg("Failed to parse default language code, falling back to English")
		defaultLanguage = language.English
	}

	bundle = i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := localeFS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales: %w", err)
	}

	loadedFiles := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, file.Name()); err != nil {
			log.Warn().Err(err).Str("file", file.Name()).Msg("Failed to load message file")
			continue
		}
		loadedFiles++
	}
	if loadedFiles == 0 {
		return fmt.Errorf("no message files loaded")
	}
	log.Debug().Int("files", loadedFiles).Str("default_language", defaultLanguage.String()).Msg("i18n bundle initialized")
	return nil
}

// GetDefaultLanguageTag returns the configured default language tag.
func GetDefaultLanguageTag() language.Tag {
	return defaultLanguage
}

// NewLocalizer creates a localizer for the given language preferences.
// It takes language tags (e.g., "en", "ru") or Accept-Language header string.
func NewLocalizer(langPrefs ...string) *i18n.Localizer {
	if bundle == nil {
		log.Panic().Msg("Attempted to create localizer before i18n bundle initialization")
	}
	return i18n.NewLocalizer(bundle, langPrefs...)
}

// GetMessage retrieves and formats a message by its ID using the provided localizer.
// msgID: The ID of the message (e.g., "MsgStart").
// templateData: Optional map for template variables (e.g., map[string]interface{}{"Name": "User"}).
// pluralCount: Optional pointer to an int for pluralization rules.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}, pluralCount *int) string {
	config := &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	}
	if pluralCount != nil {
		config.PluralCount = *pluralCount
	}

	localizedMsg, err := localizer.Localize(config)
	if err == nil {
		return localizedMsg
	}
	log.Error().Err(err).Str("message_id", msgID).Msg("Failed to localize message, falling back to English")

	englishLocalizer := i18n.NewLocalizer(bundle, language.English.String())
	if fallbackMsg, fallbackErr := englishLocalizer.Localize(config); fallbackErr == nil {
		return fallbackMsg
	}

	log.Error().Str("message_id", msgID).Msg("English fallback failed as well, returning message ID")
	return msgID
}
