// Remote WebDriver client implementation.
// See https://www.w3.org/TR/webdriver for the protocol.

package webdriver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/urbanroutes/webdriver/log"
)

const (
	// DefaultURLPrefix is the default remote end URL of a locally running
	// Selenium server.
	DefaultURLPrefix = "http://127.0.0.1:4444/wd/hub"
	// JSONType is the wire content type.
	JSONType = "application/json"
	// MaxRedirects is the maximum number of redirects to follow.
	MaxRedirects = 10
)

// sessionState tracks where a client is in its session's lifecycle. The
// progression is one way; a terminated client cannot be restarted.
type sessionState int

const (
	sessionUnstarted sessionState = iota
	sessionActive
	sessionTerminated
)

func (s sessionState) String() string {
	switch s {
	case sessionUnstarted:
		return "unstarted"
	case sessionActive:
		return "active"
	case sessionTerminated:
		return "terminated"
	}
	return fmt.Sprintf("sessionState(%d)", int(s))
}

// remoteWD drives a single session on a remote end. One instance owns one
// session's lifecycle and its transport; commands must be issued one at a
// time and in program order, which is how the remote end executes them.
type remoteWD struct {
	id        string
	urlPrefix string
	state     sessionState

	requested    []Capabilities
	capabilities Capabilities

	cmdTimeout time.Duration

	storedActions []map[string]interface{}
}

var httpClient *http.Client

// GetHTTPClient returns the default HTTP client.
func GetHTTPClient() *http.Client {
	return httpClient
}

func init() {
	// http.Client doesn't copy request headers across redirects, and the
	// remote end requires them.
	httpClient = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > MaxRedirects {
				return fmt.Errorf("too many redirects (%d)", len(via))
			}

			req.Header.Add("Accept", JSONType)
			return nil
		},
	}
}

func isMimeType(response *http.Response, mtype string) bool {
	if ctype, ok := response.Header["Content-Type"]; ok {
		return strings.HasPrefix(ctype[0], mtype)
	}
	return false
}

func newRequest(method string, url string, data []byte) (*http.Request, error) {
	request, err := http.NewRequest(method, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	request.Header.Add("Accept", JSONType)
	if method == http.MethodPost {
		request.Header.Add("Content-Type", JSONType)
	}

	return request, nil
}

// cleanNils clears NUL bytes that some Selenium versions leak into response
// bodies; json.Unmarshal refuses them.
func cleanNils(buf []byte) {
	for i, b := range buf {
		if b == 0 {
			buf[i] = ' '
		}
	}
}

// serverReply is the top-level shape shared by every response. Status is the
// legacy numeric code; W3C remote ends never send it.
type serverReply struct {
	SessionID *string         `json:"sessionId"`
	Status    *int            `json:"status"`
	Value     json.RawMessage `json:"value"`
}

// executeCommand exchanges one request with the remote end. A reply that
// cannot be read or decoded yields a TransportError; a decoded error reply
// yields a classified CommandError. A timeout of zero waits indefinitely,
// deferring to the remote end's own command timeout.
func executeCommand(method, url string, data []byte, timeout time.Duration) (json.RawMessage, error) {
	debugLog("-> %s %s\n%s", method, filteredURL(url), data)
	request, err := newRequest(method, url, data)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		request = request.WithContext(ctx)
	}
	response, err := httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer response.Body.Close()

	buf, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if debugFlag {
		// Pretty print the JSON response for the trace; keep the original
		// bytes for decoding.
		pretty := buf
		var prettyBuf bytes.Buffer
		if err := json.Indent(&prettyBuf, buf, "", "    "); err == nil && prettyBuf.Len() > 0 {
			pretty = prettyBuf.Bytes()
		}
		debugLog("<- %s [%s]\n%s", response.Status, response.Header["Content-Type"], pretty)
	}

	cleanNils(buf)
	reply := new(serverReply)
	if err := json.Unmarshal(buf, reply); err != nil {
		if response.StatusCode >= 400 {
			return nil, &TransportError{Err: fmt.Errorf("bad server reply status: %s", response.Status)}
		}
		if isMimeType(response, JSONType) {
			return nil, &TransportError{Err: err}
		}
		// A non-JSON success body is passed through; callers that expect a
		// decoded value fail on their own terms.
		return buf, nil
	}

	if response.StatusCode >= 400 || (reply.Status != nil && *reply.Status != legacySuccess) {
		return nil, classifyError(response.StatusCode, reply, buf)
	}
	return buf, nil
}

func (wd *remoteWD) requestURL(template string, args ...interface{}) string {
	return wd.urlPrefix + fmt.Sprintf(template, args...)
}

func (wd *remoteWD) requireActive(name string) error {
	if wd.state != sessionActive {
		return &InvalidStateError{State: wd.state, Command: name}
	}
	return nil
}

// exec dispatches one session-scoped command. The session id fills the first
// URL template slot; extra args fill the rest. Outside the Active state the
// command is refused locally, without a request.
func (wd *remoteWD) exec(c command, params interface{}, args ...interface{}) (json.RawMessage, error) {
	if err := wd.requireActive(c.name); err != nil {
		return nil, err
	}
	var data []byte
	if params != nil {
		var err error
		if data, err = json.Marshal(params); err != nil {
			return nil, err
		}
	} else if c.method == http.MethodPost {
		// Parameterless POST commands still require an object body.
		data = []byte("{}")
	}
	urlArgs := append([]interface{}{wd.id}, args...)
	return executeCommand(c.method, wd.requestURL(c.template, urlArgs...), data, wd.cmdTimeout)
}

func (wd *remoteWD) voidCommand(c command, params interface{}, args ...interface{}) error {
	_, err := wd.exec(c, params, args...)
	return err
}

func (wd *remoteWD) stringCommand(c command, args ...interface{}) (string, error) {
	buf, err := wd.exec(c, nil, args...)
	if err != nil {
		return "", err
	}
	reply := new(struct{ Value *string })
	if err := json.Unmarshal(buf, reply); err != nil {
		return "", &TransportError{Err: err}
	}
	if reply.Value == nil {
		return "", &TransportError{Err: fmt.Errorf("%s: nil return value", c.name)}
	}
	return *reply.Value, nil
}

func (wd *remoteWD) stringsCommand(c command, args ...interface{}) ([]string, error) {
	buf, err := wd.exec(c, nil, args...)
	if err != nil {
		return nil, err
	}
	reply := new(struct{ Value []string })
	if err := json.Unmarshal(buf, reply); err != nil {
		return nil, &TransportError{Err: err}
	}
	return reply.Value, nil
}

func (wd *remoteWD) boolCommand(c command, args ...interface{}) (bool, error) {
	buf, err := wd.exec(c, nil, args...)
	if err != nil {
		return false, err
	}
	reply := new(struct{ Value bool })
	if err := json.Unmarshal(buf, reply); err != nil {
		return false, &TransportError{Err: err}
	}
	return reply.Value, nil
}

// NewRemote creates a new remote client with the specified capabilities and
// starts a session. If urlPrefix is empty, DefaultURLPrefix is used. Defer
// the returned client's Quit to release the session on every exit path.
func NewRemote(capabilities Capabilities, urlPrefix string) (WebDriver, error) {
	if capabilities == nil {
		capabilities = make(Capabilities)
	}
	return NewRemoteWithCandidates([]Capabilities{capabilities}, urlPrefix)
}

// NewRemoteWithCandidates creates a remote client offering the remote end
// several capability candidates, merged into one New Session request. The
// remote end matches them in the order given; the outcome of the negotiation
// is available from Capabilities once the session starts.
func NewRemoteWithCandidates(candidates []Capabilities, urlPrefix string) (WebDriver, error) {
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	if len(candidates) == 0 {
		candidates = []Capabilities{{}}
	}
	wd := &remoteWD{
		urlPrefix: urlPrefix,
		requested: candidates,
	}
	if _, err := wd.NewSession(); err != nil {
		return nil, err
	}
	return wd, nil
}

// WithSession starts a session, runs fn with it, and releases the session on
// every return path, including a panic in fn.
func WithSession(capabilities Capabilities, urlPrefix string, fn func(wd WebDriver) error) error {
	wd, err := NewRemote(capabilities, urlPrefix)
	if err != nil {
		return err
	}
	defer wd.Quit()
	return fn(wd)
}

func (wd *remoteWD) Status() (*Status, error) {
	buf, err := executeCommand(cmdStatus.method, wd.requestURL(cmdStatus.template), nil, wd.cmdTimeout)
	if err != nil {
		return nil, err
	}

	reply := new(struct{ Value Status })
	if err := json.Unmarshal(buf, reply); err != nil {
		return nil, &TransportError{Err: err}
	}
	return &reply.Value, nil
}

func (wd *remoteWD) NewSession() (string, error) {
	if wd.state != sessionUnstarted {
		return "", &InvalidStateError{State: wd.state, Command: cmdNewSession.name}
	}

	data, err := json.Marshal(map[string]interface{}{
		"capabilities": MergeCapabilities(wd.requested...),
	})
	if err != nil {
		return "", &SessionStartError{URLPrefix: wd.urlPrefix, Err: err}
	}

	response, err := executeCommand(cmdNewSession.method, wd.requestURL(cmdNewSession.template), data, wd.cmdTimeout)
	if err != nil {
		return "", &SessionStartError{URLPrefix: wd.urlPrefix, Err: err}
	}

	reply := new(struct {
		SessionID string          `json:"sessionId"`
		Value     json.RawMessage `json:"value"`
	})
	if err := json.Unmarshal(response, reply); err != nil {
		return "", &SessionStartError{URLPrefix: wd.urlPrefix, Err: err}
	}

	var value struct {
		SessionID    string       `json:"sessionId"`
		Capabilities Capabilities `json:"capabilities"`
	}
	if len(reply.Value) > 0 && !bytes.Equal(reply.Value, []byte("null")) {
		if err := json.Unmarshal(reply.Value, &value); err != nil {
			return "", &SessionStartError{URLPrefix: wd.urlPrefix, Err: err}
		}
	}
	id, caps := value.SessionID, value.Capabilities
	if id == "" {
		// Older remote ends put the id at the top level and the negotiated
		// capabilities directly under value.
		id = reply.SessionID
		if caps == nil {
			var legacy Capabilities
			if err := json.Unmarshal(reply.Value, &legacy); err == nil {
				caps = legacy
			}
		}
	}
	if id == "" {
		return "", &SessionStartError{URLPrefix: wd.urlPrefix, Err: errors.New("server did not return a session id")}
	}

	wd.id = id
	wd.capabilities = caps
	wd.state = sessionActive
	return id, nil
}

// SessionId returns the current session ID.
//
// Deprecated: use SessionID.
func (wd *remoteWD) SessionId() string {
	return wd.id
}

func (wd *remoteWD) SessionID() string {
	return wd.id
}

func (wd *remoteWD) SwitchSession(sessionID string) error {
	if wd.state == sessionTerminated {
		return &InvalidStateError{State: wd.state, Command: "switchSession"}
	}
	wd.id = sessionID
	wd.state = sessionActive
	return nil
}

// Capabilities returns the capabilities the remote end reported when the
// session was negotiated. These may differ from what was requested. No
// request is sent.
func (wd *remoteWD) Capabilities() (Capabilities, error) {
	if err := wd.requireActive("getCapabilities"); err != nil {
		return nil, err
	}
	return wd.capabilities, nil
}

func (wd *remoteWD) SetCommandTimeout(timeout time.Duration) {
	wd.cmdTimeout = timeout
}

func (wd *remoteWD) SetAsyncScriptTimeout(timeout time.Duration) error {
	return wd.voidCommand(cmdSetTimeouts, map[string]uint{
		"script": uint(timeout / time.Millisecond),
	})
}

func (wd *remoteWD) SetImplicitWaitTimeout(timeout time.Duration) error {
	return wd.voidCommand(cmdSetTimeouts, map[string]uint{
		"implicit": uint(timeout / time.Millisecond),
	})
}

func (wd *remoteWD) SetPageLoadTimeout(timeout time.Duration) error {
	return wd.voidCommand(cmdSetTimeouts, map[string]uint{
		"pageLoad": uint(timeout / time.Millisecond),
	})
}

// Quit ends the session. Termination is best effort: a delivery failure goes
// to the debug log, not to the caller, and a repeated Quit is a no-op. Either
// way the client ends up terminated.
func (wd *remoteWD) Quit() error {
	if wd.state != sessionActive {
		return nil
	}
	url := wd.requestURL(cmdDeleteSession.template, wd.id)
	if _, err := executeCommand(cmdDeleteSession.method, url, nil, wd.cmdTimeout); err != nil {
		debugLog("ending session %s: %s", wd.id, err)
	}
	wd.id = ""
	wd.state = sessionTerminated
	return nil
}

func (wd *remoteWD) CurrentWindowHandle() (string, error) {
	return wd.stringCommand(cmdGetWindowHandle)
}

func (wd *remoteWD) WindowHandles() ([]string, error) {
	return wd.stringsCommand(cmdGetWindowHandles)
}

func (wd *remoteWD) CurrentURL() (string, error) {
	return wd.stringCommand(cmdGetCurrentURL)
}

func (wd *remoteWD) Get(url string) error {
	return wd.voidCommand(cmdNavigateTo, map[string]string{"url": url})
}

func (wd *remoteWD) Forward() error {
	return wd.voidCommand(cmdForward, nil)
}

func (wd *remoteWD) Back() error {
	return wd.voidCommand(cmdBack, nil)
}

func (wd *remoteWD) Refresh() error {
	return wd.voidCommand(cmdRefresh, nil)
}

func (wd *remoteWD) Title() (string, error) {
	return wd.stringCommand(cmdGetTitle)
}

func (wd *remoteWD) PageSource() (string, error) {
	return wd.stringCommand(cmdGetPageSource)
}

func (wd *remoteWD) Close() error {
	return wd.voidCommand(cmdCloseWindow, nil)
}

func (wd *remoteWD) SwitchWindow(name string) error {
	return wd.voidCommand(cmdSwitchToWindow, map[string]string{"handle": name})
}

func (wd *remoteWD) CloseWindow(name string) error {
	if name != "" {
		if err := wd.SwitchWindow(name); err != nil {
			return err
		}
	}
	return wd.voidCommand(cmdCloseWindow, nil)
}

func (wd *remoteWD) MaximizeWindow(name string) error {
	if name != "" {
		if err := wd.SwitchWindow(name); err != nil {
			return err
		}
	}
	return wd.voidCommand(cmdMaximizeWindow, nil)
}

func (wd *remoteWD) ResizeWindow(name string, width, height int) error {
	if name != "" {
		if err := wd.SwitchWindow(name); err != nil {
			return err
		}
	}
	return wd.voidCommand(cmdSetWindowRect, map[string]int{
		"width":  width,
		"height": height,
	})
}

func (wd *remoteWD) SwitchFrame(frame interface{}) error {
	params := map[string]interface{}{}
	switch f := frame.(type) {
	case nil:
		params["id"] = nil
	case int:
		params["id"] = f
	case WebElement:
		params["id"] = f
	case string:
		if f == "" {
			params["id"] = nil
		} else {
			elem, err := wd.FindElement(ByID, f)
			if err != nil {
				return err
			}
			params["id"] = elem
		}
	default:
		return fmt.Errorf("invalid frame type %T", frame)
	}
	return wd.voidCommand(cmdSwitchToFrame, params)
}

// webElementIdentifier is the key that identifies an element object on the
// wire.
const webElementIdentifier = "element-6066-11e4-a52e-4f735466cecf"

// element is the wire representation of a DOM element. Remote ends predating
// the standard use the ELEMENT key instead.
type element struct {
	Legacy string `json:"ELEMENT"`
	W3C    string `json:"element-6066-11e4-a52e-4f735466cecf"`
}

func (e *element) ref() string {
	if e.W3C != "" {
		return e.W3C
	}
	return e.Legacy
}

// DecodeElement decodes a single-element response body.
func (wd *remoteWD) DecodeElement(data []byte) (WebElement, error) {
	reply := new(serverReply)
	if err := json.Unmarshal(data, reply); err != nil {
		return nil, &TransportError{Err: err}
	}

	elem := new(element)
	if err := json.Unmarshal(reply.Value, elem); err != nil {
		return nil, &TransportError{Err: err}
	}
	id := elem.ref()
	if id == "" {
		return nil, &TransportError{Err: fmt.Errorf("invalid element in response: %s", reply.Value)}
	}
	return &remoteWE{parent: wd, id: id}, nil
}

// DecodeElements decodes a multi-element response body.
func (wd *remoteWD) DecodeElements(data []byte) ([]WebElement, error) {
	reply := new(serverReply)
	if err := json.Unmarshal(data, reply); err != nil {
		return nil, &TransportError{Err: err}
	}

	var elems []element
	if err := json.Unmarshal(reply.Value, &elems); err != nil {
		return nil, &TransportError{Err: err}
	}
	out := make([]WebElement, len(elems))
	for i, elem := range elems {
		id := elem.ref()
		if id == "" {
			return nil, &TransportError{Err: fmt.Errorf("invalid element in response: %s", reply.Value)}
		}
		out[i] = &remoteWE{parent: wd, id: id}
	}
	return out, nil
}

func (wd *remoteWD) FindElement(by, value string) (WebElement, error) {
	buf, err := wd.exec(cmdFindElement, map[string]string{"using": by, "value": value})
	if err != nil {
		return nil, err
	}
	return wd.DecodeElement(buf)
}

func (wd *remoteWD) FindElements(by, value string) ([]WebElement, error) {
	buf, err := wd.exec(cmdFindElements, map[string]string{"using": by, "value": value})
	if err != nil {
		return nil, err
	}
	return wd.DecodeElements(buf)
}

func (wd *remoteWD) ActiveElement() (WebElement, error) {
	buf, err := wd.exec(cmdGetActiveElement, nil)
	if err != nil {
		return nil, err
	}
	return wd.DecodeElement(buf)
}

// cookie is like Cookie, but allows the expiry to be a float, which has been
// observed in the wild.
type cookie struct {
	Name   string      `json:"name"`
	Value  string      `json:"value"`
	Path   string      `json:"path"`
	Domain string      `json:"domain"`
	Secure bool        `json:"secure"`
	Expiry interface{} `json:"expiry"`
}

func (c cookie) sanitize() Cookie {
	sanitized := Cookie{
		Name:   c.Name,
		Value:  c.Value,
		Path:   c.Path,
		Domain: c.Domain,
		Secure: c.Secure,
	}
	switch expiry := c.Expiry.(type) {
	case int:
		if expiry > 0 {
			sanitized.Expiry = uint(expiry)
		}
	case float64:
		sanitized.Expiry = uint(expiry)
	}
	return sanitized
}

func (wd *remoteWD) GetCookies() ([]Cookie, error) {
	buf, err := wd.exec(cmdGetAllCookies, nil)
	if err != nil {
		return nil, err
	}
	reply := new(struct{ Value []cookie })
	if err := json.Unmarshal(buf, reply); err != nil {
		return nil, &TransportError{Err: err}
	}
	cookies := make([]Cookie, len(reply.Value))
	for i, c := range reply.Value {
		cookies[i] = c.sanitize()
	}
	return cookies, nil
}

func (wd *remoteWD) GetCookie(name string) (Cookie, error) {
	buf, err := wd.exec(cmdGetNamedCookie, nil, name)
	if err != nil {
		return Cookie{}, err
	}
	reply := new(struct{ Value cookie })
	if err := json.Unmarshal(buf, reply); err != nil {
		return Cookie{}, &TransportError{Err: err}
	}
	return reply.Value.sanitize(), nil
}

func (wd *remoteWD) AddCookie(cookie *Cookie) error {
	return wd.voidCommand(cmdAddCookie, map[string]*Cookie{"cookie": cookie})
}

func (wd *remoteWD) DeleteAllCookies() error {
	return wd.voidCommand(cmdDeleteAllCookies, nil)
}

func (wd *remoteWD) DeleteCookie(name string) error {
	return wd.voidCommand(cmdDeleteCookie, nil, name)
}

func (wd *remoteWD) Click(button int) error {
	return wd.performNow(pointerSource("default mouse", MousePointer, []PointerAction{
		{"type": "pointerDown", "button": button},
		{"type": "pointerUp", "button": button},
	}))
}

func (wd *remoteWD) DoubleClick() error {
	return wd.performNow(pointerSource("default mouse", MousePointer, []PointerAction{
		{"type": "pointerDown", "button": LeftButton},
		{"type": "pointerUp", "button": LeftButton},
		{"type": "pointerDown", "button": LeftButton},
		{"type": "pointerUp", "button": LeftButton},
	}))
}

func (wd *remoteWD) ButtonDown() error {
	return wd.performNow(pointerSource("default mouse", MousePointer, []PointerAction{
		{"type": "pointerDown", "button": LeftButton},
	}))
}

func (wd *remoteWD) ButtonUp() error {
	return wd.performNow(pointerSource("default mouse", MousePointer, []PointerAction{
		{"type": "pointerUp", "button": LeftButton},
	}))
}

func (wd *remoteWD) keyUpDown(keys, direction string) error {
	var actions []KeyAction
	for _, key := range keys {
		actions = append(actions, KeyAction{"type": direction, "value": string(key)})
	}
	return wd.performNow(keySource("default keyboard", actions))
}

func (wd *remoteWD) KeyDown(keys string) error {
	return wd.keyUpDown(keys, "keyDown")
}

func (wd *remoteWD) KeyUp(keys string) error {
	return wd.keyUpDown(keys, "keyUp")
}

func (wd *remoteWD) DismissAlert() error {
	return wd.voidCommand(cmdDismissAlert, nil)
}

func (wd *remoteWD) AcceptAlert() error {
	return wd.voidCommand(cmdAcceptAlert, nil)
}

func (wd *remoteWD) AlertText() (string, error) {
	return wd.stringCommand(cmdGetAlertText)
}

func (wd *remoteWD) SetAlertText(text string) error {
	return wd.voidCommand(cmdSetAlertText, map[string]string{"text": text})
}

func (wd *remoteWD) execScriptRaw(c command, script string, args []interface{}) ([]byte, error) {
	if args == nil {
		// The wire format requires a list, not null.
		args = []interface{}{}
	}
	return wd.exec(c, map[string]interface{}{
		"script": script,
		"args":   args,
	})
}

func (wd *remoteWD) execScript(c command, script string, args []interface{}) (interface{}, error) {
	buf, err := wd.execScriptRaw(c, script, args)
	if err != nil {
		return nil, err
	}
	reply := new(struct{ Value interface{} })
	if err := json.Unmarshal(buf, reply); err != nil {
		return nil, &TransportError{Err: err}
	}
	return reply.Value, nil
}

func (wd *remoteWD) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	return wd.execScript(cmdExecuteScript, script, args)
}

func (wd *remoteWD) ExecuteScriptAsync(script string, args []interface{}) (interface{}, error) {
	return wd.execScript(cmdExecuteScriptAsync, script, args)
}

func (wd *remoteWD) ExecuteScriptRaw(script string, args []interface{}) ([]byte, error) {
	return wd.execScriptRaw(cmdExecuteScript, script, args)
}

func (wd *remoteWD) ExecuteScriptAsyncRaw(script string, args []interface{}) ([]byte, error) {
	return wd.execScriptRaw(cmdExecuteScriptAsync, script, args)
}

func (wd *remoteWD) ExecuteChromeDPCommand(cmd string, params interface{}) (interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	buf, err := wd.exec(cmdCDPExecute, map[string]interface{}{
		"cmd":    cmd,
		"params": params,
	})
	if err != nil {
		return nil, err
	}
	reply := new(struct{ Value interface{} })
	if err := json.Unmarshal(buf, reply); err != nil {
		return nil, &TransportError{Err: err}
	}
	return reply.Value, nil
}

func (wd *remoteWD) Screenshot() ([]byte, error) {
	data, err := wd.stringCommand(cmdTakeScreenshot)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(data)
}

func (wd *remoteWD) Log(typ log.Type) ([]log.Message, error) {
	buf, err := wd.exec(cmdGetLog, map[string]log.Type{"type": typ})
	if err != nil {
		return nil, err
	}
	reply := new(struct{ Value []log.Message })
	if err := json.Unmarshal(buf, reply); err != nil {
		return nil, &TransportError{Err: err}
	}
	return reply.Value, nil
}

func (wd *remoteWD) WaitWithTimeoutAndInterval(condition Condition, timeout, interval time.Duration) error {
	startTime := time.Now()

	for {
		done, err := condition(wd)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if elapsed := time.Since(startTime); elapsed > timeout {
			return fmt.Errorf("timeout after %v", elapsed)
		}
		time.Sleep(interval)
	}
}

func (wd *remoteWD) WaitWithTimeout(condition Condition, timeout time.Duration) error {
	return wd.WaitWithTimeoutAndInterval(condition, timeout, DefaultWaitInterval)
}

func (wd *remoteWD) Wait(condition Condition) error {
	return wd.WaitWithTimeoutAndInterval(condition, DefaultWaitTimeout, DefaultWaitInterval)
}

type remoteWE struct {
	parent *remoteWD
	id     string
}

// MarshalJSON encodes the element for the wire under both the standard and
// the legacy key.
func (e *remoteWE) MarshalJSON() ([]byte, error) {
	return json.Marshal(element{Legacy: e.id, W3C: e.id})
}

func (e *remoteWE) Click() error {
	return e.parent.voidCommand(cmdElementClick, nil, e.id)
}

// keysParams carries both the text field and the legacy value field, so
// either vintage of remote end accepts the keystrokes.
func keysParams(keys string) map[string]interface{} {
	chars := make([]string, 0, len(keys))
	for _, c := range keys {
		chars = append(chars, string(c))
	}
	return map[string]interface{}{
		"text":  keys,
		"value": chars,
	}
}

func (e *remoteWE) SendKeys(keys string) error {
	return e.parent.voidCommand(cmdElementSendKeys, keysParams(keys), e.id)
}

func (e *remoteWE) TagName() (string, error) {
	return e.parent.stringCommand(cmdElementTagName, e.id)
}

func (e *remoteWE) Text() (string, error) {
	return e.parent.stringCommand(cmdElementText, e.id)
}

func (e *remoteWE) Submit() error {
	return e.parent.voidCommand(cmdElementSubmit, nil, e.id)
}

func (e *remoteWE) Clear() error {
	return e.parent.voidCommand(cmdElementClear, nil, e.id)
}

func (e *remoteWE) MoveTo(xOffset, yOffset int) error {
	return e.parent.performNow(pointerSource("default mouse", MousePointer, []PointerAction{{
		"type":     "pointerMove",
		"duration": 100,
		"origin":   map[string]string{webElementIdentifier: e.id},
		"x":        xOffset,
		"y":        yOffset,
	}}))
}

func (e *remoteWE) FindElement(by, value string) (WebElement, error) {
	buf, err := e.parent.exec(cmdFindChildElement, map[string]string{"using": by, "value": value}, e.id)
	if err != nil {
		return nil, err
	}
	return e.parent.DecodeElement(buf)
}

func (e *remoteWE) FindElements(by, value string) ([]WebElement, error) {
	buf, err := e.parent.exec(cmdFindChildElements, map[string]string{"using": by, "value": value}, e.id)
	if err != nil {
		return nil, err
	}
	return e.parent.DecodeElements(buf)
}

func (e *remoteWE) IsSelected() (bool, error) {
	return e.parent.boolCommand(cmdElementSelected, e.id)
}

func (e *remoteWE) IsEnabled() (bool, error) {
	return e.parent.boolCommand(cmdElementEnabled, e.id)
}

func (e *remoteWE) IsDisplayed() (bool, error) {
	return e.parent.boolCommand(cmdElementDisplayed, e.id)
}

func (e *remoteWE) GetAttribute(name string) (string, error) {
	return e.parent.stringCommand(cmdElementAttribute, e.id, name)
}

func (e *remoteWE) CSSProperty(name string) (string, error) {
	return e.parent.stringCommand(cmdElementCSSValue, e.id, name)
}

func (e *remoteWE) rect() (x, y, width, height float64, err error) {
	buf, err := e.parent.exec(cmdElementRect, nil, e.id)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	reply := new(struct {
		Value struct {
			X, Y, Width, Height float64
		}
	})
	if err := json.Unmarshal(buf, reply); err != nil {
		return 0, 0, 0, 0, &TransportError{Err: err}
	}
	v := reply.Value
	return v.X, v.Y, v.Width, v.Height, nil
}

func (e *remoteWE) Location() (*Point, error) {
	x, y, _, _, err := e.rect()
	if err != nil {
		return nil, err
	}
	return &Point{X: int(math.Round(x)), Y: int(math.Round(y))}, nil
}

func (e *remoteWE) LocationInView() (*Point, error) {
	if _, err := e.parent.ExecuteScript("arguments[0].scrollIntoView(true);", []interface{}{e}); err != nil {
		return nil, err
	}
	return e.Location()
}

func (e *remoteWE) Size() (*Size, error) {
	_, _, width, height, err := e.rect()
	if err != nil {
		return nil, err
	}
	return &Size{Width: int(math.Round(width)), Height: int(math.Round(height))}, nil
}

func (e *remoteWE) Screenshot(scroll bool) ([]byte, error) {
	data, err := e.parent.stringCommand(cmdElementScreenshot, e.id)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(data)
}
