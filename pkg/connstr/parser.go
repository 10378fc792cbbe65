package connstr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/ooor/pkg/domain"
)

const (
	// DefaultHost is used when the descriptor names no host.
	DefaultHost = "localhost"
	// DefaultPort is used when the descriptor names no port.
	DefaultPort = 8069
	// SSLPort always implies https.
	SSLPort = 443
)

var (
	ooorURLPrefix = regexp.MustCompile(`^ooor://`)
	httpPrefix    = regexp.MustCompile(`^(https?)://`)
	ooorPrefix    = regexp.MustCompile(`^ooor:`)
	sslQuery      = regexp.MustCompile(`\??ssl=true`)
	sslSwitch     = regexp.MustCompile(` -s`)
	hostPort      = regexp.MustCompile(`^([^:]*)(?::(\d+))?`)
)

// Result is the structured form of a descriptor.
// Password and Database are empty when the descriptor does not carry them.
type Result struct {
	Host     string
	Port     int
	SSL      bool
	Username string
	Password string
	Database string
}

// Scheme returns "https" for SSL connections and "http" otherwise.
func (r Result) Scheme() string {
	if r.SSL {
		return "https"
	}
	return "http"
}

// URL returns "{scheme}://{host}:{port}".
func (r Result) URL() string {
	return fmt.Sprintf("%s://%s:%d", r.Scheme(), r.Host, r.Port)
}

// Map renders the partial config mapping: url and username always, password
// and database only when present.
func (r Result) Map() map[string]any {
	m := map[string]any{
		domain.KeyURL:      r.URL(),
		domain.KeyUsername: r.Username,
	}
	if r.Password != "" {
		m[domain.KeyPassword] = r.Password
	}
	if r.Database != "" {
		m[domain.KeyDatabase] = r.Database
	}
	return m
}

// Config returns the partial config carried by the descriptor.
func (r Result) Config() domain.Config {
	return domain.Config{
		URL:      r.URL(),
		Username: r.Username,
		Password: r.Password,
		Database: r.Database,
	}
}

// Parse turns a descriptor into a Result. It never fails; unparseable
// fragments are replaced by defaults.
func Parse(descriptor string) Result {
	cs, ssl := normalize(descriptor)

	var r Result
	if left, right, found := strings.Cut(cs, "@"); found {
		// Only the first two '@'-separated segments count.
		right, _, _ = strings.Cut(right, "@")

		hp := right
		if strings.Contains(right, "/") {
			parts := strings.Split(right, "/")
			hp, r.Database = parts[0], parts[1]
		}
		r.Host, r.Port = parseHostPort(hp)

		switch {
		case strings.Contains(left, ":"):
			parts := strings.Split(left, ":")
			r.Username, r.Password = parts[0], parts[1]
		case strings.Contains(left, ".") && r.Database == "":
			parts := strings.Split(left, ".")
			r.Username, r.Database = parts[0], parts[1]
		default:
			r.Username = left
		}
	} else {
		r.Host, r.Port = parseHostPort(cs)
	}

	if r.Host == "" {
		r.Host = DefaultHost
	}
	if r.Port == 0 {
		r.Port = DefaultPort
	}
	r.SSL = ssl || r.Port == SSLPort
	if strings.TrimSpace(r.Username) == "" {
		r.Username = domain.DefaultUsername
	}
	return r
}

// normalize strips scheme prefixes and SSL markers, in order.
func normalize(descriptor string) (string, bool) {
	cs := descriptor
	if !strings.Contains(cs, "@") {
		cs = ooorURLPrefix.ReplaceAllString(cs, "@")
	}

	var ssl bool
	if m := httpPrefix.FindStringSubmatch(cs); m != nil {
		ssl = m[1] == "https"
		cs = cs[len(m[0]):]
	}
	// "ooor:" is stripped twice on purpose: "ooor:ooor://..." descriptors exist in the wild.
	cs = ooorPrefix.ReplaceAllString(cs, "")
	cs = ooorPrefix.ReplaceAllString(cs, "")
	cs = strings.Replace(cs, "//", "", 1)

	if sslQuery.MatchString(cs) {
		ssl = true
		cs = sslQuery.ReplaceAllString(cs, "")
	}
	if sslSwitch.MatchString(cs) {
		ssl = true
		cs = sslSwitch.ReplaceAllString(cs, "")
	}
	return cs, ssl
}

// parseHostPort splits "host[:port]". A missing or non-numeric port comes
// back as 0 and is reconciled to DefaultPort by the caller.
func parseHostPort(s string) (string, int) {
	m := hostPort.FindStringSubmatch(s)
	if m == nil {
		return s, 0
	}
	port, err := strconv.Atoi(m[2])
	if err != nil {
		return m[1], 0
	}
	return m[1], port
}
