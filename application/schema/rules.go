package schema

import (
	"fmt"
	"time"

	"github.com/chatkit-dev/sam/domain/entities"
)

// noRules is the rule for kinds whose field tags say everything.
func noRules(entities.TypedManifest) *entities.ValidationResult {
	return &entities.ValidationResult{}
}

// accountRules checks the enumerated locale fields against the canonical
// reference tables. Each violation reports the rejected value and the
// accepted set so one submission surfaces every bad code.
func accountRules(m entities.TypedManifest) *entities.ValidationResult {
	result := &entities.ValidationResult{}
	account, ok := m.(*entities.AccountManifest)
	if !ok {
		result.Addf("spec", "bound model is not an Account manifest")
		return result
	}

	spec := account.Spec
	if spec.Currency != "" && !entities.ValidCurrency(spec.Currency) {
		result.Add(entities.Violation{
			Field:    "spec.currency",
			Message:  "is not a supported currency",
			Value:    spec.Currency,
			Accepted: entities.Currencies(),
		})
	}
	if spec.Country != "" && !entities.ValidCountry(spec.Country) {
		result.Add(entities.Violation{
			Field:    "spec.country",
			Message:  "is not a supported country",
			Value:    spec.Country,
			Accepted: entities.Countries(),
		})
	}
	if spec.Language != "" && !entities.ValidLanguage(spec.Language) {
		result.Add(entities.Violation{
			Field:    "spec.language",
			Message:  "is not a supported language",
			Value:    spec.Language,
			Accepted: entities.Languages(),
		})
	}
	if spec.Timezone != "" && !entities.ValidTimezone(spec.Timezone) {
		result.Add(entities.Violation{
			Field:    "spec.timezone",
			Message:  "is not a supported timezone",
			Value:    spec.Timezone,
			Accepted: entities.Timezones(),
		})
	}
	return result
}

// pluginRules enforces the discriminator contract: exactly the data block
// matching the declared plugin class is present, every other block absent.
func pluginRules(m entities.TypedManifest) *entities.ValidationResult {
	result := &entities.ValidationResult{}
	plugin, ok := m.(*entities.PluginManifest)
	if !ok {
		result.Addf("spec", "bound model is not a Plugin manifest")
		return result
	}

	spec := plugin.Spec
	blocks := []struct {
		field   string
		class   string
		present bool
	}{
		{"spec.staticData", entities.PluginClassStatic, spec.StaticData != nil},
		{"spec.sqlData", entities.PluginClassSQL, spec.SQLData != nil},
		{"spec.apiData", entities.PluginClassAPI, spec.APIData != nil},
	}
	for _, b := range blocks {
		switch {
		case b.class == spec.PluginClass && !b.present:
			result.Addf(b.field, "is required when pluginClass is %q", spec.PluginClass)
		case b.class != spec.PluginClass && b.present:
			result.Addf(b.field, "must be absent when pluginClass is %q", spec.PluginClass)
		}
	}
	return result
}

// chatbotRules ties selector search terms to the declared directive.
func chatbotRules(m entities.TypedManifest) *entities.ValidationResult {
	result := &entities.ValidationResult{}
	chatbot, ok := m.(*entities.ChatbotManifest)
	if !ok {
		result.Addf("spec", "bound model is not a Chatbot manifest")
		return result
	}

	selector := chatbot.Spec.Selector
	if selector == nil {
		return result
	}
	if selector.Directive == entities.DirectiveSearchTerms {
		if len(selector.SearchTerms) == 0 {
			result.Addf("spec.selector.searchTerms", "is required when directive is %q", entities.DirectiveSearchTerms)
		}
	} else if len(selector.SearchTerms) > 0 {
		result.Addf("spec.selector.searchTerms", "must be absent when directive is %q", selector.Directive)
	}
	return result
}

// apiConnectionRules ties the credential fields to the auth scheme.
func apiConnectionRules(m entities.TypedManifest) *entities.ValidationResult {
	result := &entities.ValidationResult{}
	conn, ok := m.(*entities.APIConnectionManifest)
	if !ok {
		result.Addf("spec", "bound model is not an ApiConnection manifest")
		return result
	}

	spec := conn.Spec
	switch spec.AuthScheme {
	case entities.AuthSchemeNone:
		if spec.Credential != "" {
			result.Addf("spec.credential", "must be absent when authScheme is %q", entities.AuthSchemeNone)
		}
	default:
		if spec.Credential == "" {
			result.Addf("spec.credential", "is required when authScheme is %q", spec.AuthScheme)
		}
	}
	if spec.AuthScheme == entities.AuthSchemeHeader && spec.HeaderName == "" {
		result.Addf("spec.headerName", "is required when authScheme is %q", entities.AuthSchemeHeader)
	}
	return result
}

// apiKeyRules checks the optional expiry is a well-formed timestamp.
func apiKeyRules(m entities.TypedManifest) *entities.ValidationResult {
	result := &entities.ValidationResult{}
	key, ok := m.(*entities.APIKeyManifest)
	if !ok {
		result.Addf("spec", "bound model is not an ApiKey manifest")
		return result
	}

	if key.Spec.ExpiresAt == "" {
		return result
	}
	if _, err := time.Parse(time.RFC3339, key.Spec.ExpiresAt); err != nil {
		result.Add(entities.Violation{
			Field:   "spec.expiresAt",
			Message: fmt.Sprintf("must be an RFC 3339 timestamp: %v", err),
			Value:   key.Spec.ExpiresAt,
		})
	}
	return result
}
