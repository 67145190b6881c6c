package llm

import (
	"os"
	"strings"
	"time"
)

// Provider names a supported LLM backend. All supported backends speak the
// OpenAI-style chat completions protocol.
const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
)

type providerConfig struct {
	URL          string
	EnvVar       string
	DefaultModel string
	Timeout      time.Duration
}

var providerConfigs = map[string]providerConfig{
	ProviderGroq: {
		URL:          "https://api.groq.com/openai/v1/chat/completions",
		EnvVar:       "GROQ_API_KEY",
		DefaultModel: "llama-3.3-70b-versatile",
		Timeout:      120 * time.Second,
	},
	ProviderOpenRouter: {
		URL:          "https://openrouter.ai/api/v1/chat/completions",
		EnvVar:       "OPENROUTER_API_KEY",
		DefaultModel: "openai/gpt-3.5-turbo",
		Timeout:      60 * time.Second,
	},
}

// providerPriority is the probing order when no provider is configured.
var providerPriority = []string{ProviderGroq, ProviderOpenRouter}

// ResolveProvider picks a provider name. An explicit, known name wins;
// otherwise the first provider with a non-empty credential in the
// environment is chosen; otherwise groq defaults apply.
func ResolveProvider(explicit string) string {
	name := strings.ToLower(strings.TrimSpace(explicit))
	if _, ok := providerConfigs[name]; ok {
		return name
	}
	for _, p := range providerPriority {
		if os.Getenv(providerConfigs[p].EnvVar) != "" {
			return p
		}
	}
	return ProviderGroq
}
