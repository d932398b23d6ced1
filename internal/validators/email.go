package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid aceita o e-mail se o domínio tiver MX ou, na falta, algum IP.
func IsEmailDomainValid(email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

// emailDomain separa o domínio sem consultar DNS.
func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}

	domain := strings.TrimSuffix(email[at+1:], ".")
	if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " /\\") {
		return "", false
	}
	return domain, true
}
