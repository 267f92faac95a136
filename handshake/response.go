package handshake

import "strings"

// Wire prefixes, matched case-exactly including the single trailing space.
// Note the lowercase 'k' in "SSHHostkey: " — the wire key does not match
// the in-memory field name, and must stay exactly as the servers send it.
const (
	prefixUpgrade     = "Upgrade: "
	prefixPSK         = "PSK: "
	prefixSSHPort     = "SSHPort: "
	prefixSSHUsername = "SSHUsername: "
	prefixSSHPassword = "SSHPassword: "
	prefixSSHHostKey  = "SSHHostkey: "
	prefixHomepage    = "Homepage: "
	prefixServer      = "Server: "
)

// Response holds the fields extracted from a handshake response.
//
// The scalar fields each take the last occurrence of their line; Homepages
// and Servers accumulate every occurrence in order.
type Response struct {
	UpgradeVersion string
	PSK            string
	SSHPort        string
	SSHUsername    string
	SSHPassword    string
	SSHHostKey     string
	Homepages      []string
	Servers        []string
}

// Parse extracts fields from the raw handshake blob. All fields are reset
// first, so a Response may be reused across parses. Unknown and blank
// lines are skipped; Parse never fails.
func (r *Response) Parse(raw string) {
	*r = Response{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, prefixUpgrade):
			r.UpgradeVersion = line[len(prefixUpgrade):]
		case strings.HasPrefix(line, prefixPSK):
			r.PSK = line[len(prefixPSK):]
		case strings.HasPrefix(line, prefixSSHPort):
			r.SSHPort = line[len(prefixSSHPort):]
		case strings.HasPrefix(line, prefixSSHUsername):
			r.SSHUsername = line[len(prefixSSHUsername):]
		case strings.HasPrefix(line, prefixSSHPassword):
			r.SSHPassword = line[len(prefixSSHPassword):]
		case strings.HasPrefix(line, prefixSSHHostKey):
			r.SSHHostKey = line[len(prefixSSHHostKey):]
		case strings.HasPrefix(line, prefixHomepage):
			r.Homepages = append(r.Homepages, line[len(prefixHomepage):])
		case strings.HasPrefix(line, prefixServer):
			r.Servers = append(r.Servers, line[len(prefixServer):])
		}
	}
}

// ParseResponse parses raw into a fresh Response.
func ParseResponse(raw string) Response {
	var r Response
	r.Parse(raw)
	return r
}
