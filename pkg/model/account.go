package model

import "strings"

// tldSuffixes are stripped from email domains before normalization.
var tldSuffixes = []string{".com", ".io", ".ai", ".net", ".org", ".co", ".edu"}

// NormalizeCompany converts a free-text company name into a canonical
// comparable key: lowercase, no spaces, no hyphens.
func NormalizeCompany(name string) string {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "-", "")
	return key
}

// CompanyFromEmail extracts a normalized company key from an email
// address domain. Returns "" when the address has no "@".
func CompanyFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return ""
	}

	domain := email[at+1:]
	for _, tld := range tldSuffixes {
		if strings.HasSuffix(domain, tld) {
			domain = domain[:len(domain)-len(tld)]
			break
		}
	}

	return NormalizeCompany(domain)
}

// EmailDomain returns the raw domain of an email address, or "" when
// the address has no "@".
func EmailDomain(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}
