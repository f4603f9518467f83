package driven

// ConfigStore provides persistent key-value configuration.
// Backed by a TOML file in the claimsight config directory.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value, "" when unset.
	GetString(key string) string

	// GetInt retrieves an integer configuration value, 0 when unset.
	GetInt(key string) int

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Delete removes a configuration value and persists the change.
	Delete(key string) error
}

// Well-known configuration keys.
const (
	// ConfigEnrichmentProvider selects the enrichment adapter:
	// "perplexity", "ollama" or "" (disabled).
	ConfigEnrichmentProvider = "enrichment.provider"

	// ConfigEnrichmentAPIKey is the hosted provider API key.
	ConfigEnrichmentAPIKey = "enrichment.api_key"

	// ConfigEnrichmentModel overrides the provider's default model.
	ConfigEnrichmentModel = "enrichment.model"

	// ConfigEnrichmentBaseURL overrides the provider's base URL.
	ConfigEnrichmentBaseURL = "enrichment.base_url"

	// ConfigStorageBackend selects the storage adapter: "memory" or "sqlite".
	ConfigStorageBackend = "storage.backend"

	// ConfigBatchConcurrency caps parallel queries in batch analysis.
	ConfigBatchConcurrency = "batch.concurrency"

	// ConfigInboxDir is the directory watched for new policy documents.
	ConfigInboxDir = "inbox.dir"
)
