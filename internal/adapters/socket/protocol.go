// Package socket implements a JSON-over-Unix-socket protocol for the psearch
// daemon. The protocol uses newline-delimited JSON: each message is one JSON
// object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
)

// SocketPath returns the Unix socket path for a given pattern source
// (dictionary file path or store path + name).
// Format: /tmp/psearch-{first12hex}.sock
func SocketPath(source string) string {
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/psearch-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodMatch    = "match"
	MethodHealth   = "health"
	MethodReload   = "reload"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// MatchParams is the params for a match request.
type MatchParams struct {
	Text string `json:"text"`
}

// MatchResult is the result of a match request.
type MatchResult struct {
	Patterns []string    `json:"patterns"` // distinct patterns, first-occurrence order
	Matches  []MatchSpan `json:"matches"`  // every occurrence, scan order
	Count    int         `json:"count"`
	Elapsed  string      `json:"elapsed"`
}

// MatchSpan is a single occurrence in match results (wire format).
type MatchSpan struct {
	Pattern string `json:"pattern"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status       string `json:"status"`
	PatternCount int    `json:"pattern_count"`
	Source       string `json:"source"`
	Uptime       string `json:"uptime"`
}

// ReloadResult is the result of a reload request.
type ReloadResult struct {
	PatternCount int   `json:"pattern_count"`
	ElapsedMs    int64 `json:"elapsed_ms"`
}
