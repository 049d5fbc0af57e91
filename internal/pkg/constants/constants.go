package constants

import "time"

const (
	CookieKeySession = "sdg_session"
)

const (
	ViperServerAddrKey        = "server.addr"
	ViperServerCORSOriginsKey = "server.cors_origins"

	ViperDBDSNKey      = "db.dsn"
	ViperDBMaxConnsKey = "db.max_conns"

	ViperSecretKey         = "auth.secret"
	ViperTokenTTLKey       = "auth.token_ttl"
	ViperCookieSecureKey   = "auth.cookie_secure"
	ViperCalculatorURLKey  = "calculator.base_url"
	ViperCalculatorTimeout = "calculator.timeout"
	ViperCalculatorRetries = "calculator.max_retries"
	ViperCalculatorDelay   = "calculator.retry_delay"
	ViperCalculatorBackoff = "calculator.backoff_multiplier"
	ViperETLTriggerURLKey  = "etl.trigger_url"
	ViperLogLevelKey       = "log.level"
	ViperDebugKey          = "debug"
)

// ETLInterval is how often the trigger asks the server to re-run the yearly aggregation.
const ETLInterval = 6 * time.Hour
