package hostsedit

import (
	"net"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

const (
	maxLabelLen = 63
	punyPrefix  = "xn--"
)

// Normalize turns user input (a bare domain or a pasted URL) into the
// canonical lowercase ASCII form stored in rules.
func Normalize(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimPrefix(value, "http://")
	value = strings.TrimPrefix(value, "https://")

	if i := strings.IndexAny(value, "/?#"); i != -1 {
		value = value[:i]
	}
	if at := strings.LastIndexByte(value, '@'); at != -1 {
		value = value[at+1:]
	}
	if strings.Contains(value, ":") {
		host, _, err := net.SplitHostPort(value)
		if err != nil {
			return "", invalid(raw, "unexpected ':'")
		}
		value = host
	}
	value = strings.TrimSuffix(value, ".")

	if value == "" {
		return "", invalid(raw, "empty domain")
	}
	if value == "localhost" {
		return "", invalid(raw, "localhost cannot be blocked")
	}
	if net.ParseIP(value) != nil {
		return "", invalid(raw, "ip literals are not domains")
	}

	if !isASCII(value) {
		ascii, err := idna.Lookup.ToASCII(value)
		if err != nil {
			return "", invalid(raw, "idna: "+err.Error())
		}
		value = strings.ToLower(ascii)
	}

	if _, ok := dns.IsDomainName(value); !ok {
		return "", invalid(raw, "not a domain name")
	}
	if reason := checkLabels(value); reason != "" {
		return "", invalid(raw, reason)
	}
	return value, nil
}

func checkLabels(name string) string {
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return "missing top-level domain"
	}
	for _, label := range labels {
		if label == "" {
			return "empty label"
		}
		if len(label) > maxLabelLen {
			return "label longer than 63 characters"
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return "label starts or ends with '-'"
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
				return "label contains invalid characters"
			}
		}
	}

	tld := labels[len(labels)-1]
	if strings.HasPrefix(tld, punyPrefix) {
		return ""
	}
	if len(tld) < 2 {
		return "top-level domain too short"
	}
	for i := 0; i < len(tld); i++ {
		if tld[i] < 'a' || tld[i] > 'z' {
			return "top-level domain must be alphabetic"
		}
	}
	return ""
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
