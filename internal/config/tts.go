package config

// TTSConfig holds speech-synthesis collaborator configuration. The service
// treats the vendor as opaque: text in, audio with a known duration out.
type TTSConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Voice     string `json:"voice"`
	Language  string `json:"language"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultTTSConfig returns the default TTS configuration
func DefaultTTSConfig() *TTSConfig {
	return &TTSConfig{
		APIKey:    getEnvOrDefault("TTS_API_KEY", ""),
		BaseURL:   getEnvOrDefault("TTS_BASE_URL", "https://texttospeech.googleapis.com/v1/text:synthesize"),
		Voice:     getEnvOrDefault("TTS_VOICE", "ko-KR-Standard-A"),
		Language:  getEnvOrDefault("TTS_LANGUAGE", "ko-KR"),
		TimeoutMS: 15000,
	}
}

// IsEnabled returns true if a synthesis vendor is configured
func (c *TTSConfig) IsEnabled() bool {
	return c.APIKey != ""
}
