package webdriver

import (
	"net/http"
	"strings"
	"testing"
)

var allCommands = []command{
	cmdStatus, cmdNewSession, cmdDeleteSession, cmdSetTimeouts,
	cmdNavigateTo, cmdGetCurrentURL, cmdBack, cmdForward, cmdRefresh,
	cmdGetTitle, cmdGetPageSource,
	cmdGetWindowHandle, cmdCloseWindow, cmdSwitchToWindow, cmdGetWindowHandles,
	cmdMaximizeWindow, cmdSetWindowRect, cmdSwitchToFrame,
	cmdFindElement, cmdFindElements, cmdGetActiveElement,
	cmdFindChildElement, cmdFindChildElements,
	cmdElementClick, cmdElementClear, cmdElementSendKeys, cmdElementSubmit,
	cmdElementText, cmdElementTagName, cmdElementSelected, cmdElementEnabled,
	cmdElementDisplayed, cmdElementAttribute, cmdElementCSSValue,
	cmdElementRect, cmdElementScreenshot,
	cmdGetAllCookies, cmdGetNamedCookie, cmdAddCookie, cmdDeleteAllCookies,
	cmdDeleteCookie,
	cmdDismissAlert, cmdAcceptAlert, cmdGetAlertText, cmdSetAlertText,
	cmdExecuteScript, cmdExecuteScriptAsync,
	cmdPerformActions, cmdReleaseActions,
	cmdTakeScreenshot, cmdGetLog, cmdCDPExecute,
}

func TestCommandTable(t *testing.T) {
	names := make(map[string]bool)
	routes := make(map[string]bool)
	for _, c := range allCommands {
		if c.name == "" || c.method == "" || c.template == "" {
			t.Errorf("command %+v has an empty field", c)
			continue
		}
		if names[c.name] {
			t.Errorf("command name %q is duplicated", c.name)
		}
		names[c.name] = true
		route := c.method + " " + c.template
		if routes[route] {
			t.Errorf("command route %q is duplicated", route)
		}
		routes[route] = true

		switch c.method {
		case http.MethodGet, http.MethodPost, http.MethodDelete:
		default:
			t.Errorf("command %q uses unexpected method %q", c.name, c.method)
		}
		if !strings.HasPrefix(c.template, "/") {
			t.Errorf("command %q template %q is not rooted", c.name, c.template)
		}
		// Every command other than the two session-less ones addresses a
		// session, so the session id is the first template argument.
		if c.name != "status" && c.name != "newSession" && !strings.HasPrefix(c.template, "/session/%s") {
			t.Errorf("command %q template %q is not session scoped", c.name, c.template)
		}
	}
}
