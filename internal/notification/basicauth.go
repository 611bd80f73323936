package notification

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// authHeaders is the fallback chain searched for inbound Basic credentials.
// Some hosting stacks strip or rename the Authorization header on rewrite,
// so the redirect-preserved and generic variants are accepted too.
var authHeaders = []string{"Authorization", "Redirect-Authorization", "X-Authorization"}

// credentials extracts a Basic Auth username/password pair from the first
// header in the fallback chain that carries one.
func credentials(r *http.Request) (user, pass string, ok bool) {
	for _, name := range authHeaders {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		if user, pass, ok = parseBasic(value); ok {
			return user, pass, true
		}
	}
	return "", "", false
}

func parseBasic(value string) (user, pass string, ok bool) {
	const prefix = "Basic "
	if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(value[len(prefix):])
	if err != nil {
		return "", "", false
	}
	user, pass, ok = strings.Cut(string(decoded), ":")
	return user, pass, ok
}
