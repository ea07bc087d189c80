package webdriver

import (
	"reflect"

	"github.com/urbanroutes/webdriver/chrome"
	"github.com/urbanroutes/webdriver/firefox"
	"github.com/urbanroutes/webdriver/log"
	"github.com/urbanroutes/webdriver/selenoid"
)

// Capabilities configures both the WebDriver process and the target browser,
// with standard and browser-specific options.
type Capabilities map[string]interface{}

// AddChrome adds Chrome-specific capabilities.
func (c Capabilities) AddChrome(f chrome.Capabilities) {
	c[chrome.CapabilitiesKey] = f
	c[chrome.DeprecatedCapabilitiesKey] = f
}

// AddFirefox adds Firefox-specific capabilities.
func (c Capabilities) AddFirefox(f firefox.Capabilities) {
	c[firefox.CapabilitiesKey] = f
}

// AddProxy adds proxy configuration to the capabilities.
func (c Capabilities) AddProxy(p Proxy) {
	c["proxy"] = p
}

// AddLogging adds logging configuration to the capabilities.
func (c Capabilities) AddLogging(l log.Capabilities) {
	c[log.CapabilitiesKey] = l
}

// AddSelenoid adds Selenoid-specific capabilities for sessions brokered by a
// Selenoid or Go Grid Router endpoint.
func (c Capabilities) AddSelenoid(s selenoid.Capabilities) {
	c[selenoid.CapabilitiesKey] = s
}

// SetLogLevel sets the logging level of a component. It is a shortcut for
// passing a log.Capabilities instance to AddLogging.
func (c Capabilities) SetLogLevel(typ log.Type, level log.Level) {
	if _, ok := c[log.CapabilitiesKey]; !ok {
		c[log.CapabilitiesKey] = make(log.Capabilities)
	}
	m := c[log.CapabilitiesKey].(log.Capabilities)
	m[typ] = level
}

// NewSessionCapabilities is the capabilities object of a New Session request:
// requirements shared by every candidate, plus per-candidate remainders the
// remote end tries in order.
type NewSessionCapabilities struct {
	AlwaysMatch Capabilities   `json:"alwaysMatch"`
	FirstMatch  []Capabilities `json:"firstMatch"`
}

// MergeCapabilities folds session candidates into a NewSessionCapabilities
// object. A key is hoisted into alwaysMatch only when every candidate carries
// it with a deeply equal value; each candidate's remaining keys stay in its
// firstMatch entry, preserving candidate order. No candidates is treated as a
// single empty candidate, so the result is always a valid request body.
func MergeCapabilities(candidates ...Capabilities) NewSessionCapabilities {
	if len(candidates) == 0 {
		candidates = []Capabilities{{}}
	}
	always := Capabilities{}
	for k, v := range candidates[0] {
		shared := true
		for _, c := range candidates[1:] {
			if other, ok := c[k]; !ok || !reflect.DeepEqual(other, v) {
				shared = false
				break
			}
		}
		if shared {
			always[k] = v
		}
	}
	first := make([]Capabilities, len(candidates))
	for i, c := range candidates {
		rest := Capabilities{}
		for k, v := range c {
			if _, ok := always[k]; !ok {
				rest[k] = v
			}
		}
		first[i] = rest
	}
	return NewSessionCapabilities{AlwaysMatch: always, FirstMatch: first}
}

// Proxy specifies configuration for proxies in the browser. Set the key
// "proxy" in Capabilities to an instance of this type.
type Proxy struct {
	// Type is the type of proxy to use. This is required to be populated.
	Type ProxyType `json:"proxyType"`

	// AutoconfigURL is the URL to be used for proxy auto configuration. This is
	// required if Type is set to PAC.
	AutoconfigURL string `json:"proxyAutoconfigUrl,omitempty"`

	// The following are used when Type is set to Manual.
	//
	// Note that in Firefox, connections to localhost are not proxied by default,
	// even if a proxy is set. This can be overridden via a preference setting.
	FTP           string   `json:"ftpProxy,omitempty"`
	HTTP          string   `json:"httpProxy,omitempty"`
	SSL           string   `json:"sslProxy,omitempty"`
	SOCKS         string   `json:"socksProxy,omitempty"`
	SOCKSVersion  int      `json:"socksVersion,omitempty"`
	SOCKSUsername string   `json:"socksUsername,omitempty"`
	SOCKSPassword string   `json:"socksPassword,omitempty"`
	NoProxy       []string `json:"noProxy,omitempty"`

	// The W3C draft spec includes port fields as well. According to the
	// specification, ports can also be included in the above addresses. However,
	// in the Geckodriver implementation, the ports must be specified by these
	// additional fields.
	HTTPPort  int `json:"httpProxyPort,omitempty"`
	SSLPort   int `json:"sslProxyPort,omitempty"`
	SocksPort int `json:"socksProxyPort,omitempty"`
}

// ProxyType is an enumeration of the types of proxies available.
type ProxyType string

const (
	// Direct connection - no proxy in use.
	Direct ProxyType = "direct"
	// Manual proxy settings configured, e.g. setting a proxy for HTTP, a proxy
	// for FTP, etc.
	Manual = "manual"
	// Autodetect proxy, probably with WPAD
	Autodetect = "autodetect"
	// System settings used.
	System = "system"
	// PAC - Proxy autoconfiguration from a URL.
	PAC = "pac"
)
