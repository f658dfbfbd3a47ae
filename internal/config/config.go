package config

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"11444"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
	// DashboardPublicUrl is the base for deep links embedded in alert SMS.
	DashboardPublicUrl string `env:"DASHBOARD_PUBLIC_URL" envDefault:"https://app.washstack.fr"`
}

type DatabaseConfig struct {
	Host            string `env:"WASHSTACK_POSTGRES_HOST,required"`
	Port            string `env:"WASHSTACK_POSTGRES_PORT,required"`
	User            string `env:"WASHSTACK_POSTGRES_USER,required"`
	DBName          string `env:"WASHSTACK_POSTGRES_DB_NAME,required"`
	Password        string `env:"WASHSTACK_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"WASHSTACK_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"WASHSTACK_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"WASHSTACK_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"WASHSTACK_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"WASHSTACK_POSTGRES_SSL_MODE" envDefault:"require"`
}

type OpenAIConfig struct {
	Url            string `env:"OPENAI_API_URL" envDefault:"https://api.openai.com" validate:"required"`
	ApiKey         string `env:"OPENAI_API_KEY"`
	Model          string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	TimeoutSeconds int    `env:"OPENAI_TIMEOUT_SECONDS" envDefault:"30"`
}

type TwilioConfig struct {
	Url            string `env:"TWILIO_API_URL" envDefault:"https://api.twilio.com" validate:"required"`
	AccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	FromNumber     string `env:"TWILIO_FROM_NUMBER"`
	TimeoutSeconds int    `env:"TWILIO_TIMEOUT_SECONDS" envDefault:"30"`
}

// WebhookSecretsConfig holds the per-provider HMAC secrets checked at the
// boundary before anything is enqueued.
type WebhookSecretsConfig struct {
	CallTranscription string `env:"WEBHOOK_SECRET_CALL_TRANSCRIPTION,required"`
	Payment           string `env:"WEBHOOK_SECRET_PAYMENT,required"`
	Maintenance       string `env:"WEBHOOK_SECRET_MAINTENANCE,required"`
}

type PipelineConfig struct {
	MaxAttemptsCallTranscription int `env:"PIPELINE_MAX_ATTEMPTS_CALL_TRANSCRIPTION" envDefault:"3"`
	MaxAttemptsPayment           int `env:"PIPELINE_MAX_ATTEMPTS_PAYMENT" envDefault:"3"`
	MaxAttemptsMaintenance       int `env:"PIPELINE_MAX_ATTEMPTS_MAINTENANCE" envDefault:"3"`

	RetryBackoffMinMs int `env:"PIPELINE_RETRY_BACKOFF_MIN_MS" envDefault:"500"`
	RetryBackoffMaxMs int `env:"PIPELINE_RETRY_BACKOFF_MAX_MS" envDefault:"30000"`

	// QueueCapacity bounds the worker's inbox channel.
	QueueCapacity int `env:"PIPELINE_QUEUE_CAPACITY" envDefault:"1024"`

	RecurrenceLookbackHours int `env:"PIPELINE_RECURRENCE_LOOKBACK_HOURS" envDefault:"24"`

	// RecipientCache bounds the dispatcher's active-recipient lookup cache.
	RecipientCacheSize       int `env:"PIPELINE_RECIPIENT_CACHE_SIZE" envDefault:"256"`
	RecipientCacheTTLSeconds int `env:"PIPELINE_RECIPIENT_CACHE_TTL_SECONDS" envDefault:"300"`
}
