package domain

// Config mapping keys, shared by mapstructure tags, the resolver and the HTTP adapter.
const (
	KeyURL                   = "url"
	KeyOoorURL               = "ooor_url"
	KeyUsername              = "username"
	KeyPassword              = "password"
	KeyDatabase              = "database"
	KeyReload                = "reload"
	KeySessionSharing        = "session_sharing"
	KeyDisableLocaleSwitcher = "disable_locale_switcher"
	KeyLogLevel              = "log_level"
)

// Environment variables consulted during resolution.
const (
	EnvURL      = "OOOR_URL"
	EnvUsername = "OOOR_USERNAME"
	EnvPassword = "OOOR_PASSWORD"
	EnvDatabase = "OOOR_DATABASE"
)

// Built-in defaults applied when nothing else provides a value.
const (
	DefaultURL      = "http://localhost:8069"
	DefaultUsername = "admin"
)

// NoWeb is the reserved session id selecting the headless key derivation
// (url, database and username) instead of an externally supplied id.
const NoWeb = ":noweb"

// WebSession keys with a meaning for the registry.
const (
	WebKeySessionID = "session_id"
	WebKeyLocale    = "locale"
	WebKeyContext   = "context"
	WebKeyLang      = "lang"
)
