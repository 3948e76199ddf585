package enricher

import (
	"strings"

	"github.com/mssola/useragent"

	"github.com/uxbench/uxbench/internal/report"
)

// Enrich fills browser details the recording client did not send, using the
// User-Agent of the request that started the session.
func Enrich(meta report.Metadata, userAgentString string) report.Metadata {
	if userAgentString == "" {
		return meta
	}

	ua := useragent.New(userAgentString)
	if meta.Browser == "" {
		name, version := ua.Browser()
		meta.Browser = strings.TrimSpace(name + " " + version)
	}
	if meta.OS == "" {
		meta.OS = ua.OS()
	}
	if meta.Operator == "" && ua.Bot() {
		meta.Operator = "agent"
	}
	return meta
}

// DeviceType classifies the client for logging.
func DeviceType(userAgentString string) string {
	ua := useragent.New(userAgentString)
	if ua.Mobile() {
		return "mobile"
	}
	if ua.Bot() {
		return "bot"
	}
	return "desktop"
}
