package config

import "net/url"

var secretKeys = []string{"database.url", "redis.url", "log.sentry.dsn"}

// redact masks the password of a URL-shaped secret, or its user name when
// there is no password (Sentry DSN keys). Unparsable values are masked whole.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "xxxxx"
	}
	if u.User == nil {
		return u.String()
	}
	if _, ok := u.User.Password(); ok {
		return u.Redacted()
	}
	u.User = url.User("xxxxx")
	return u.String()
}
