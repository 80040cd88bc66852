package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// PublicURL is the externally reachable base URL used to build the links
	// that are sent out by email (activation, password reset, email change).
	PublicURL string `mapstructure:"public_url" validate:"required,url"`

	// RateLimitPerMinute throttles the unauthenticated endpoints that send
	// email. Zero disables throttling.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	TokenLifetimeMinutes            int `mapstructure:"token_lifetime_minutes"             validate:"required,gt=0,lt=44640"`
	RefreshTokenLifetimeMinutes     int `mapstructure:"refresh_token_lifetime_minutes"     validate:"required,gt=0,lt=44640"`
	ActivationTokenLifetimeMinutes  int `mapstructure:"activation_token_lifetime_minutes"  validate:"required,gt=0,lt=44640"`
	ResetTokenLifetimeMinutes       int `mapstructure:"reset_token_lifetime_minutes"       validate:"required,gt=0,lt=44640"`
	EmailChangeTokenLifetimeMinutes int `mapstructure:"email_change_token_lifetime_minutes" validate:"required,gt=0,lt=44640"`

	// PasswordHasher selects the algorithm for new hashes. Existing hashes are
	// verified by their own format, so switching is non-destructive.
	PasswordHasher    string `mapstructure:"password_hasher"     validate:"required,oneof=bcrypt argon2id"`
	BcryptCost        int    `mapstructure:"bcrypt_cost"         validate:"gte=4,lte=31"`
	PasswordMinLength int    `mapstructure:"password_min_length" validate:"gte=1,lte=72"`
}

// MailConfig contains outgoing email settings.
type MailConfig struct {
	Driver   string `mapstructure:"driver"   validate:"required,oneof=smtp log"`
	Host     string `mapstructure:"host"     validate:"required_if=Driver smtp"`
	Port     int    `mapstructure:"port"     validate:"gte=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"required,email"`

	QueueSize   int `mapstructure:"queue_size"   validate:"gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
}
