package webdriver

import "net/http"

// command is one entry in the closed vocabulary of remote operations. URL
// templates are relative to the server's URL prefix; session-scoped
// templates take the session id as their first argument.
type command struct {
	name     string
	method   string
	template string
}

var (
	cmdStatus     = command{"status", http.MethodGet, "/status"}
	cmdNewSession = command{"newSession", http.MethodPost, "/session"}

	cmdDeleteSession = command{"deleteSession", http.MethodDelete, "/session/%s"}
	cmdSetTimeouts   = command{"setTimeouts", http.MethodPost, "/session/%s/timeouts"}

	cmdNavigateTo    = command{"navigateTo", http.MethodPost, "/session/%s/url"}
	cmdGetCurrentURL = command{"getCurrentURL", http.MethodGet, "/session/%s/url"}
	cmdBack          = command{"back", http.MethodPost, "/session/%s/back"}
	cmdForward       = command{"forward", http.MethodPost, "/session/%s/forward"}
	cmdRefresh       = command{"refresh", http.MethodPost, "/session/%s/refresh"}
	cmdGetTitle      = command{"getTitle", http.MethodGet, "/session/%s/title"}
	cmdGetPageSource = command{"getPageSource", http.MethodGet, "/session/%s/source"}

	cmdGetWindowHandle  = command{"getWindowHandle", http.MethodGet, "/session/%s/window"}
	cmdCloseWindow      = command{"closeWindow", http.MethodDelete, "/session/%s/window"}
	cmdSwitchToWindow   = command{"switchToWindow", http.MethodPost, "/session/%s/window"}
	cmdGetWindowHandles = command{"getWindowHandles", http.MethodGet, "/session/%s/window/handles"}
	cmdMaximizeWindow   = command{"maximizeWindow", http.MethodPost, "/session/%s/window/maximize"}
	cmdSetWindowRect    = command{"setWindowRect", http.MethodPost, "/session/%s/window/rect"}
	cmdSwitchToFrame    = command{"switchToFrame", http.MethodPost, "/session/%s/frame"}

	cmdFindElement       = command{"findElement", http.MethodPost, "/session/%s/element"}
	cmdFindElements      = command{"findElements", http.MethodPost, "/session/%s/elements"}
	cmdGetActiveElement  = command{"getActiveElement", http.MethodGet, "/session/%s/element/active"}
	cmdFindChildElement  = command{"findChildElement", http.MethodPost, "/session/%s/element/%s/element"}
	cmdFindChildElements = command{"findChildElements", http.MethodPost, "/session/%s/element/%s/elements"}

	cmdElementClick      = command{"elementClick", http.MethodPost, "/session/%s/element/%s/click"}
	cmdElementClear      = command{"elementClear", http.MethodPost, "/session/%s/element/%s/clear"}
	cmdElementSendKeys   = command{"elementSendKeys", http.MethodPost, "/session/%s/element/%s/value"}
	cmdElementSubmit     = command{"elementSubmit", http.MethodPost, "/session/%s/element/%s/submit"}
	cmdElementText       = command{"getElementText", http.MethodGet, "/session/%s/element/%s/text"}
	cmdElementTagName    = command{"getElementTagName", http.MethodGet, "/session/%s/element/%s/name"}
	cmdElementSelected   = command{"isElementSelected", http.MethodGet, "/session/%s/element/%s/selected"}
	cmdElementEnabled    = command{"isElementEnabled", http.MethodGet, "/session/%s/element/%s/enabled"}
	cmdElementDisplayed  = command{"isElementDisplayed", http.MethodGet, "/session/%s/element/%s/displayed"}
	cmdElementAttribute  = command{"getElementAttribute", http.MethodGet, "/session/%s/element/%s/attribute/%s"}
	cmdElementCSSValue   = command{"getElementCSSValue", http.MethodGet, "/session/%s/element/%s/css/%s"}
	cmdElementRect       = command{"getElementRect", http.MethodGet, "/session/%s/element/%s/rect"}
	cmdElementScreenshot = command{"takeElementScreenshot", http.MethodGet, "/session/%s/element/%s/screenshot"}

	cmdGetAllCookies    = command{"getAllCookies", http.MethodGet, "/session/%s/cookie"}
	cmdGetNamedCookie   = command{"getNamedCookie", http.MethodGet, "/session/%s/cookie/%s"}
	cmdAddCookie        = command{"addCookie", http.MethodPost, "/session/%s/cookie"}
	cmdDeleteAllCookies = command{"deleteAllCookies", http.MethodDelete, "/session/%s/cookie"}
	cmdDeleteCookie     = command{"deleteCookie", http.MethodDelete, "/session/%s/cookie/%s"}

	cmdDismissAlert = command{"dismissAlert", http.MethodPost, "/session/%s/alert/dismiss"}
	cmdAcceptAlert  = command{"acceptAlert", http.MethodPost, "/session/%s/alert/accept"}
	cmdGetAlertText = command{"getAlertText", http.MethodGet, "/session/%s/alert/text"}
	cmdSetAlertText = command{"sendAlertText", http.MethodPost, "/session/%s/alert/text"}

	cmdExecuteScript      = command{"executeScript", http.MethodPost, "/session/%s/execute/sync"}
	cmdExecuteScriptAsync = command{"executeScriptAsync", http.MethodPost, "/session/%s/execute/async"}

	cmdPerformActions = command{"performActions", http.MethodPost, "/session/%s/actions"}
	cmdReleaseActions = command{"releaseActions", http.MethodDelete, "/session/%s/actions"}

	cmdTakeScreenshot = command{"takeScreenshot", http.MethodGet, "/session/%s/screenshot"}

	cmdGetLog = command{"getLog", http.MethodPost, "/session/%s/log"}

	cmdCDPExecute = command{"executeCDPCommand", http.MethodPost, "/session/%s/goog/cdp/execute"}
)
