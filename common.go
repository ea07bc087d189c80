package webdriver

import (
	"log"
	"net/url"
)

var debugFlag = false

// SetDebug enables or disables tracing of the wire protocol to the standard
// logger.
func SetDebug(debug bool) {
	debugFlag = debug
}

func debugLog(format string, args ...interface{}) {
	if !debugFlag {
		return
	}
	log.Printf(format+"\n", args...)
}

// filteredURL hides the password of a URL that carries credentials, so wire
// traces and error messages stay safe to share.
func filteredURL(u string) string {
	m, err := url.Parse(u)
	if err != nil {
		return ""
	}
	if m.User != nil {
		if _, ok := m.User.Password(); ok {
			m.User = url.UserPassword(m.User.Username(), "__password__")
		}
	}
	return m.String()
}
