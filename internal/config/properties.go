package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default RCON endpoint used when server.properties is missing or does not
// configure the remote console.
const (
	DefaultRCONHost = "127.0.0.1"
	DefaultRCONPort = 25575
)

// Properties is an order- and comment-preserving view of a Minecraft
// key=value properties file (server.properties, eula.txt). The server
// rewrites these files itself, so edits must not reshuffle lines it expects.
type Properties struct {
	path  string
	lines []propLine
	index map[string]int
}

type propLine struct {
	raw   string // verbatim text for comments and blank lines
	key   string
	value string
	kv    bool
}

// LoadProperties parses the properties file at path.
func LoadProperties(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
	}

	p := &Properties{path: path, index: make(map[string]int)}
	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
			p.lines = append(p.lines, propLine{raw: line})
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			p.lines = append(p.lines, propLine{raw: line})
			continue
		}
		key = strings.TrimSpace(key)
		p.lines = append(p.lines, propLine{key: key, value: strings.TrimSpace(value), kv: true})
		p.index[key] = len(p.lines) - 1
	}

	// Drop a single trailing blank produced by the final newline.
	if n := len(p.lines); n > 0 && !p.lines[n-1].kv && strings.TrimSpace(p.lines[n-1].raw) == "" {
		p.lines = p.lines[:n-1]
	}

	return p, nil
}

// Get returns the value for key.
func (p *Properties) Get(key string) (string, bool) {
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.lines[i].value, true
}

// Set updates key in place, or appends it when absent.
func (p *Properties) Set(key, value string) {
	if i, ok := p.index[key]; ok {
		p.lines[i].value = value
		return
	}
	p.lines = append(p.lines, propLine{key: key, value: value, kv: true})
	p.index[key] = len(p.lines) - 1
}

// Save writes the file back to the path it was loaded from.
func (p *Properties) Save() error {
	var b strings.Builder
	for _, line := range p.lines {
		if line.kv {
			b.WriteString(line.key)
			b.WriteByte('=')
			b.WriteString(line.value)
		} else {
			b.WriteString(line.raw)
		}
		b.WriteByte('\n')
	}

	if err := os.WriteFile(p.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write properties file %s: %w", p.path, err)
	}
	return nil
}

// RCONTarget is the resolved (host, port, password) triple the console
// connects to.
type RCONTarget struct {
	Host     string
	Port     uint16
	Password string
}

// Addr returns the target formatted as host:port.
func (t RCONTarget) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// ResolveRCON resolves the console connection triple from a
// server.properties file. A missing file, missing keys, or an unparseable
// port fall back to 127.0.0.1:25575 with an empty password. Underscore
// variants of the keys are accepted alongside the canonical dotted ones.
func ResolveRCON(path string) RCONTarget {
	t := RCONTarget{Host: DefaultRCONHost, Port: DefaultRCONPort}

	props, err := LoadProperties(path)
	if err != nil {
		return t
	}

	if v, ok := firstOf(props, "rcon.host", "rcon_host"); ok && v != "" {
		t.Host = v
	}
	if v, ok := firstOf(props, "rcon.port", "rcon_port"); ok {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			t.Port = uint16(n)
		}
	}
	if v, ok := firstOf(props, "rcon.password", "rcon_password"); ok {
		t.Password = v
	}

	return t
}

func firstOf(p *Properties, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := p.Get(key); ok {
			return v, true
		}
	}
	return "", false
}
