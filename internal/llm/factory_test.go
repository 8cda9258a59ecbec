package llm

import "testing"

func TestFactoryCreateOpenAI(t *testing.T) {
	f := &Factory{Provider: ProviderOpenAI}
	c, err := f.CreateClient("sk-test")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := c.(*OpenAIClient); !ok {
		t.Fatalf("unexpected client type %T", c)
	}

	// Empty provider defaults to OpenAI.
	if _, err := (&Factory{}).CreateClient("sk-test"); err != nil {
		t.Fatalf("default provider: %v", err)
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	f := &Factory{Provider: "frontier"}
	if _, err := f.CreateClient("key"); err == nil {
		t.Fatalf("unknown provider accepted")
	}
}

func TestHasCredential(t *testing.T) {
	openai := &Factory{Provider: ProviderOpenAI}
	if openai.HasCredential("") {
		t.Fatalf("empty api key counted as credential")
	}
	if !openai.HasCredential("sk-test") {
		t.Fatalf("api key not counted as credential")
	}

	yandex := &Factory{Provider: ProviderYandex, YandexOAuthToken: "tok"}
	if !yandex.HasCredential("") {
		t.Fatalf("yandex oauth token not counted as credential")
	}
	if (&Factory{Provider: ProviderYandex}).HasCredential("sk-test") {
		t.Fatalf("api key wrongly satisfies yandex credential")
	}
}
