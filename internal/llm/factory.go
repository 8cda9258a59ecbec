package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory builds completion clients for the configured provider. The
// OpenAI API key is passed per call so a key updated at runtime takes
// effect by rebuilding the client.
type Factory struct {
	Provider         string
	OpenAIBaseURL    string
	YandexOAuthToken string
	YandexFolderID   string
}

func (f *Factory) CreateClient(apiKey string) (Client, error) {
	switch strings.ToLower(f.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAI(apiKey, f.OpenAIBaseURL), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", f.Provider)
	}
}

// HasCredential reports whether the provider has the credential it needs.
// For OpenAI that is the runtime-configurable API key; for Yandex the
// OAuth token supplied at startup.
func (f *Factory) HasCredential(apiKey string) bool {
	if strings.ToLower(f.Provider) == ProviderYandex {
		return f.YandexOAuthToken != ""
	}
	return apiKey != ""
}
