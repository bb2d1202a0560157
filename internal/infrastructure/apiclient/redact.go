package apiclient

import "net/url"

var secretParams = []string{"api_key", "app_key"}

// redact masks credential query parameters so URLs are safe to log
func redact(reqURL string) string {
	u, err := url.Parse(reqURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
