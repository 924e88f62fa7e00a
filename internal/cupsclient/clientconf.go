package cupsclient

import (
	"bufio"
	"net"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

// settings are the connection defaults CUPS clients share: client.conf
// files first, then the CUPS_* environment.
type settings struct {
	host     string
	port     int
	useTLS   bool
	user     string
	password string
	insecure bool
}

func loadSettings() settings {
	s := settings{}
	for _, path := range clientConfPaths() {
		readClientConf(path, &s)
	}
	if v := strings.TrimSpace(os.Getenv("CUPS_SERVER")); v != "" {
		s.applyServer(v)
	}
	if v := strings.TrimSpace(os.Getenv("CUPS_ENCRYPTION")); v != "" {
		s.applyEncryption(v)
	}
	if v := strings.TrimSpace(os.Getenv("CUPS_USER")); v != "" {
		s.user = v
	}
	if v, ok := parseBoolEnv("CUPS_VALIDATECERTS"); ok {
		s.insecure = !v
	}
	if v, ok := parseBoolEnv("CUPS_IPP_INSECURE"); ok {
		s.insecure = v
	}
	s.password = os.Getenv("CUPS_PASSWORD")
	if s.port == 0 {
		s.port = defaultIPPPort()
	}
	if s.user == "" {
		s.user = defaultUser()
	}
	return s
}

func clientConfPaths() []string {
	if override := strings.TrimSpace(os.Getenv("CUPS_CLIENT_CONF")); override != "" {
		return []string{override}
	}
	paths := []string{filepath.Join(systemConfDir(), "client.conf")}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".cups", "client.conf"))
	}
	return paths
}

func readClientConf(path string, s *settings) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := fields[0]
		value := strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, key)), `"'`)
		if value == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "servername":
			s.applyServer(value)
		case "encryption":
			s.applyEncryption(value)
		case "user":
			s.user = value
		case "validatecerts":
			if v, ok := parseBool(value); ok {
				s.insecure = !v
			}
		}
	}
}

func (s *settings) applyServer(value string) {
	host, port, useTLS := parseServer(value)
	if host != "" {
		s.host = host
	}
	if port > 0 {
		s.port = port
	}
	if useTLS {
		s.useTLS = true
	}
}

func (s *settings) applyEncryption(value string) {
	switch strings.ToLower(value) {
	case "never":
		s.useTLS = false
	case "required", "always":
		s.useTLS = true
	}
}

// parseServer accepts "host", "host:port", "[v6]:port" or a URL with an
// ipp, ipps, http or https scheme.
func parseServer(value string) (string, int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", 0, false
	}
	if strings.Contains(value, "://") {
		if u, err := url.Parse(value); err == nil && u.Hostname() != "" {
			port, _ := strconv.Atoi(u.Port())
			switch strings.ToLower(u.Scheme) {
			case "https", "ipps":
				return u.Hostname(), port, true
			}
			return u.Hostname(), port, false
		}
	}
	if host, portStr, err := net.SplitHostPort(value); err == nil {
		if port, err := strconv.Atoi(portStr); err == nil {
			return host, port, false
		}
	}
	return strings.Trim(value, "[]"), 0, false
}

func defaultIPPPort() int {
	if n, err := strconv.Atoi(os.Getenv("IPP_PORT")); err == nil && n > 0 {
		return n
	}
	return 631
}

// defaultUser falls back to the account database when the login
// environment is missing, as under systemd units or in containers.
func defaultUser() string {
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	if v := os.Getenv("USERNAME"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func systemConfDir() string {
	if v := os.Getenv("CUPS_SERVERROOT"); v != "" {
		return v
	}
	return "/etc/cups"
}

func parseBoolEnv(name string) (bool, bool) {
	if v := os.Getenv(name); v != "" {
		return parseBool(v)
	}
	return false, false
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "yes", "on", "true":
		return true, true
	case "0", "no", "off", "false":
		return false, true
	}
	return false, false
}
