package webdriver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/urbanroutes/webdriver/log"
)

const fakeSessionID = "fake-session-1"

// fakeDriver is an in-process remote end that speaks just enough of the wire
// protocol to exercise the client. It records every request it serves so
// tests can assert on what was, and was not, sent.
type fakeDriver struct {
	mu       sync.Mutex
	requests []string

	// override, when set, takes over handling of any session-scoped request.
	override http.HandlerFunc

	server *httptest.Server
}

func newFakeDriver() *fakeDriver {
	d := &fakeDriver{}
	d.server = httptest.NewServer(http.HandlerFunc(d.handle))
	return d
}

func (d *fakeDriver) record(r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, r.Method+" "+r.URL.Path)
}

// count returns how many served requests match the "METHOD /path" prefix.
func (d *fakeDriver) count(prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, req := range d.requests {
		if strings.HasPrefix(req, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDriver) served() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", JSONType)
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func (d *fakeDriver) handle(w http.ResponseWriter, r *http.Request) {
	d.record(r)

	if r.Method == http.MethodPost && r.URL.Path == "/session" {
		body, _ := ioutil.ReadAll(r.Body)
		var req struct {
			Capabilities struct {
				AlwaysMatch map[string]interface{} `json:"alwaysMatch"`
			} `json:"capabilities"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, `{"value":{"error":"invalid argument","message":"malformed new session request"}}`)
			return
		}
		if req.Capabilities.AlwaysMatch["browserName"] == "no-such-browser" {
			writeJSON(w, http.StatusInternalServerError, `{"value":{"error":"session not created","message":"no matching capabilities found"}}`)
			return
		}
		negotiated := map[string]interface{}{"negotiated": true}
		for k, v := range req.Capabilities.AlwaysMatch {
			negotiated[k] = v
		}
		reply := map[string]interface{}{
			"value": map[string]interface{}{
				"sessionId":    fakeSessionID,
				"capabilities": negotiated,
			},
		}
		buf, _ := json.Marshal(reply)
		writeJSON(w, http.StatusOK, string(buf))
		return
	}

	if !strings.HasPrefix(r.URL.Path, "/session/"+fakeSessionID) {
		if r.Method == http.MethodGet && r.URL.Path == "/status" {
			writeJSON(w, http.StatusOK, `{"value":{"ready":true,"message":"ready for new sessions"}}`)
			return
		}
		writeJSON(w, http.StatusNotFound, `{"value":{"error":"invalid session id","message":"unknown session"}}`)
		return
	}

	if d.override != nil {
		d.override(w, r)
		return
	}

	suffix := strings.TrimPrefix(r.URL.Path, "/session/"+fakeSessionID)
	switch {
	case r.Method == http.MethodDelete && suffix == "":
		writeJSON(w, http.StatusOK, `{"value":null}`)
	case r.Method == http.MethodGet && suffix == "/title":
		writeJSON(w, http.StatusOK, `{"value":"Urban Routes"}`)
	case r.Method == http.MethodPost && suffix == "/url":
		writeJSON(w, http.StatusOK, `{"value":null}`)
	case r.Method == http.MethodPost && suffix == "/element":
		body, _ := ioutil.ReadAll(r.Body)
		var req struct {
			Using string `json:"using"`
			Value string `json:"value"`
		}
		json.Unmarshal(body, &req)
		if req.Value == "#missing" {
			writeJSON(w, http.StatusNotFound, `{"value":{"error":"no such element","message":"Unable to locate element: #missing"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"value":{"element-6066-11e4-a52e-4f735466cecf":"elem-1"}}`)
	case r.Method == http.MethodPost && suffix == "/log":
		writeJSON(w, http.StatusOK, `{"value":[{"timestamp":1617181920000,"level":"INFO","message":"entry one"},{"timestamp":1617181921000,"level":"SEVERE","message":"entry two"}]}`)
	case r.Method == http.MethodPost && suffix == "/actions":
		writeJSON(w, http.StatusOK, `{"value":null}`)
	default:
		writeJSON(w, http.StatusNotFound, fmt.Sprintf(`{"value":{"error":"unknown command","message":"unhandled fake endpoint %s %s"}}`, r.Method, r.URL.Path))
	}
}

// startSession is a test helper that opens a session against the fake driver.
func startSession(t *testing.T, d *fakeDriver) WebDriver {
	t.Helper()
	wd, err := NewRemote(Capabilities{"browserName": "chrome"}, d.server.URL)
	if err != nil {
		t.Fatalf("NewRemote(_, %q) returned error: %v", d.server.URL, err)
	}
	return wd
}

func TestNewSession(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	defer wd.Quit()

	if got, want := wd.SessionID(), fakeSessionID; got != want {
		t.Errorf("wd.SessionID() = %q, want %q", got, want)
	}
	caps, err := wd.Capabilities()
	if err != nil {
		t.Fatalf("wd.Capabilities() returned error: %v", err)
	}
	// The effective capabilities are the remote end's, not the requested ones.
	want := Capabilities{"browserName": "chrome", "negotiated": true}
	if diff := cmp.Diff(want, caps); diff != "" {
		t.Errorf("wd.Capabilities() returned diff (-want/+got):\n%s", diff)
	}
	if got := d.count("POST /session"); got != 1 {
		t.Errorf("fake driver served %d new session requests, want 1", got)
	}
}

func TestNewSessionWhileActive(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	defer wd.Quit()

	if _, err := wd.NewSession(); !isInvalidState(err) {
		t.Errorf("wd.NewSession() on an active session returned %v, want InvalidStateError", err)
	}
	if got := d.count("POST /session"); got != 1 {
		t.Errorf("fake driver served %d new session requests, want 1", got)
	}
}

func TestNewSessionRejectedCapabilities(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	_, err := NewRemote(Capabilities{"browserName": "no-such-browser"}, d.server.URL)
	var sse *SessionStartError
	if !errors.As(err, &sse) {
		t.Fatalf("NewRemote(...) returned %v, want SessionStartError", err)
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("SessionStartError does not wrap the remote end's rejection: %v", err)
	}
	if want := "no matching capabilities found"; ce.Message != want {
		t.Errorf("rejection message = %q, want %q", ce.Message, want)
	}
}

func TestNewSessionUnreachableEndpoint(t *testing.T) {
	d := newFakeDriver()
	d.server.Close()

	_, err := NewRemote(Capabilities{"browserName": "chrome"}, d.server.URL)
	var sse *SessionStartError
	if !errors.As(err, &sse) {
		t.Fatalf("NewRemote(...) returned %v, want SessionStartError", err)
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("SessionStartError does not wrap a TransportError: %v", err)
	}
}

func isInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

func TestDispatchBeforeStart(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := &remoteWD{urlPrefix: d.server.URL}
	if _, err := wd.Title(); !isInvalidState(err) {
		t.Errorf("wd.Title() before NewSession returned %v, want InvalidStateError", err)
	}
	if err := wd.Get("http://app"); !isInvalidState(err) {
		t.Errorf("wd.Get(...) before NewSession returned %v, want InvalidStateError", err)
	}
	if got := d.served(); got != 0 {
		t.Errorf("fake driver served %d requests, want 0: %v", got, d.requests)
	}
}

func TestDispatchAfterQuit(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	if err := wd.Quit(); err != nil {
		t.Fatalf("wd.Quit() returned error: %v", err)
	}
	served := d.served()

	if _, err := wd.Title(); !isInvalidState(err) {
		t.Errorf("wd.Title() after Quit returned %v, want InvalidStateError", err)
	}
	if _, err := wd.NewSession(); !isInvalidState(err) {
		t.Errorf("wd.NewSession() after Quit returned %v, want InvalidStateError", err)
	}
	if got := d.served(); got != served {
		t.Errorf("fake driver served %d requests after Quit, want %d: %v", got, served, d.requests)
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	for i := 0; i < 3; i++ {
		if err := wd.Quit(); err != nil {
			t.Fatalf("wd.Quit() #%d returned error: %v", i+1, err)
		}
	}
	if got := d.count("DELETE /session/" + fakeSessionID); got != 1 {
		t.Errorf("fake driver served %d session termination requests, want 1", got)
	}
}

func TestQuitSwallowsTerminationErrors(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()
	d.override = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"value":{"error":"unknown error","message":"browser crashed"}}`)
	}

	wd := startSession(t, d)
	if err := wd.Quit(); err != nil {
		t.Errorf("wd.Quit() returned error %v, want nil despite the failed termination", err)
	}
	// The session is terminated locally regardless.
	if _, err := wd.Title(); !isInvalidState(err) {
		t.Errorf("wd.Title() after failed Quit returned %v, want InvalidStateError", err)
	}
}

func TestCommandErrorClassification(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	defer wd.Quit()

	_, err := wd.FindElement(ByCSSSelector, "#missing")
	if !errors.Is(err, &CommandError{Kind: NoSuchElement}) {
		t.Fatalf("wd.FindElement(_, %q) returned %v, want CommandError{NoSuchElement}", "#missing", err)
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("errors.As(err, *CommandError) = false")
	}
	if want := "Unable to locate element: #missing"; ce.Message != want {
		t.Errorf("ce.Message = %q, want %q", ce.Message, want)
	}
	var te *TransportError
	if errors.As(err, &te) {
		t.Errorf("a rejected command classified as a TransportError: %v", err)
	}
}

func TestTransportErrorDuringDispatch(t *testing.T) {
	d := newFakeDriver()

	wd := startSession(t, d)
	d.server.Close()

	_, err := wd.Title()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("wd.Title() against a closed endpoint returned %v, want TransportError", err)
	}
	if errors.Is(err, &CommandError{}) {
		t.Errorf("a transport failure classified as a CommandError: %v", err)
	}
}

func TestCommandTimeout(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()
	block := make(chan struct{})
	defer close(block)
	d.override = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}

	wd := startSession(t, d)
	wd.SetCommandTimeout(50 * time.Millisecond)

	_, err := wd.Title()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("wd.Title() with an unresponsive endpoint returned %v, want TransportError", err)
	}
}

func TestWithSession(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wantErr := errors.New("scenario failed")
	err := WithSession(Capabilities{"browserName": "chrome"}, d.server.URL, func(wd WebDriver) error {
		if got, want := wd.SessionID(), fakeSessionID; got != want {
			t.Errorf("wd.SessionID() = %q, want %q", got, want)
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("WithSession(...) = %v, want %v", err, wantErr)
	}
	if got := d.count("DELETE /session/" + fakeSessionID); got != 1 {
		t.Errorf("fake driver served %d session termination requests, want 1", got)
	}
}

func TestWithSessionReleasesOnPanic(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("WithSession did not propagate the panic")
			}
		}()
		WithSession(Capabilities{"browserName": "chrome"}, d.server.URL, func(wd WebDriver) error {
			panic("test code blew up")
		})
	}()
	if got := d.count("DELETE /session/" + fakeSessionID); got != 1 {
		t.Errorf("fake driver served %d session termination requests, want 1", got)
	}
}

func TestStringCommand(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	defer wd.Quit()

	title, err := wd.Title()
	if err != nil {
		t.Fatalf("wd.Title() returned error: %v", err)
	}
	if want := "Urban Routes"; title != want {
		t.Errorf("wd.Title() = %q, want %q", title, want)
	}
}

func TestDecodeElement(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d).(*remoteWD)
	defer wd.Quit()

	tests := []struct {
		desc string
		body string
		want string
	}{
		{
			desc: "w3c element key",
			body: `{"value":{"element-6066-11e4-a52e-4f735466cecf":"abc"}}`,
			want: "abc",
		},
		{
			desc: "legacy element key",
			body: `{"value":{"ELEMENT":"def"}}`,
			want: "def",
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			elem, err := wd.DecodeElement([]byte(test.body))
			if err != nil {
				t.Fatalf("wd.DecodeElement(%q) returned error: %v", test.body, err)
			}
			if got := elem.(*remoteWE).id; got != test.want {
				t.Errorf("decoded element id = %q, want %q", got, test.want)
			}
		})
	}

	if _, err := wd.DecodeElement([]byte(`{"value":{}}`)); err == nil {
		t.Errorf("wd.DecodeElement on a body without an element key returned nil error")
	}
}

func TestLogDecoding(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	wd := startSession(t, d)
	defer wd.Quit()

	entries, err := wd.Log(log.Performance)
	if err != nil {
		t.Fatalf("wd.Log(log.Performance) returned error: %v", err)
	}
	want := []log.Message{
		{Timestamp: time.Unix(1617181920, 0), Level: log.Info, Message: "entry one"},
		{Timestamp: time.Unix(1617181921, 0), Level: log.Severe, Message: "entry two"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("wd.Log(log.Performance) returned diff (-want/+got):\n%s", diff)
	}
}

func TestPerformActions(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	var payloads []json.RawMessage
	d.override = func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/actions") {
			body, _ := ioutil.ReadAll(r.Body)
			payloads = append(payloads, body)
		}
		writeJSON(w, http.StatusOK, `{"value":null}`)
	}

	wd := startSession(t, d)
	defer wd.Quit()

	wd.StoreKeyActions("keyboard1",
		wd.KeyDownAction("a"),
		wd.KeyPauseAction(50*time.Millisecond),
		wd.KeyUpAction("a"),
	)
	wd.StorePointerActions("mouse1", MousePointer,
		wd.PointerMoveAction(0, Point{X: 100, Y: 100}, FromViewport),
		wd.PointerDownAction(LeftButton),
		wd.PointerUpAction(LeftButton),
	)
	if err := wd.PerformActions(); err != nil {
		t.Fatalf("wd.PerformActions() returned error: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("fake driver saw %d action payloads, want 1", len(payloads))
	}

	var got map[string]interface{}
	if err := json.Unmarshal(payloads[0], &got); err != nil {
		t.Fatalf("json.Unmarshal(payload) returned error: %v", err)
	}
	want := map[string]interface{}{
		"actions": []interface{}{
			map[string]interface{}{
				"type": "key",
				"id":   "keyboard1",
				"actions": []interface{}{
					map[string]interface{}{"type": "keyDown", "value": "a"},
					map[string]interface{}{"type": "pause", "duration": float64(50)},
					map[string]interface{}{"type": "keyUp", "value": "a"},
				},
			},
			map[string]interface{}{
				"type":       "pointer",
				"id":         "mouse1",
				"parameters": map[string]interface{}{"pointerType": "mouse"},
				"actions": []interface{}{
					map[string]interface{}{"type": "pointerMove", "duration": float64(0), "origin": "viewport", "x": float64(100), "y": float64(100)},
					map[string]interface{}{"type": "pointerDown", "button": float64(0)},
					map[string]interface{}{"type": "pointerUp", "button": float64(0)},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("actions payload returned diff (-want/+got):\n%s", diff)
	}

	// The store is cleared after a perform.
	if err := wd.PerformActions(); err != nil {
		t.Fatalf("wd.PerformActions() on an empty store returned error: %v", err)
	}
	var second map[string]interface{}
	if err := json.Unmarshal(payloads[1], &second); err != nil {
		t.Fatalf("json.Unmarshal(second payload) returned error: %v", err)
	}
	if diff := cmp.Diff(map[string]interface{}{"actions": []interface{}{}}, second); diff != "" {
		t.Errorf("second actions payload returned diff (-want/+got):\n%s", diff)
	}
}

func TestElementSendKeysPayload(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	var payload []byte
	d.override = func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/element/elem-1/value") {
			payload, _ = ioutil.ReadAll(r.Body)
			writeJSON(w, http.StatusOK, `{"value":null}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"value":{"element-6066-11e4-a52e-4f735466cecf":"elem-1"}}`)
	}

	wd := startSession(t, d)
	defer wd.Quit()

	elem, err := wd.FindElement(ByID, "phone")
	if err != nil {
		t.Fatalf("wd.FindElement(ByID, %q) returned error: %v", "phone", err)
	}
	if err := elem.SendKeys("+1 123"); err != nil {
		t.Fatalf("elem.SendKeys(...) returned error: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("json.Unmarshal(payload) returned error: %v", err)
	}
	want := map[string]interface{}{
		"text":  "+1 123",
		"value": []interface{}{"+", "1", " ", "1", "2", "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("send keys payload returned diff (-want/+got):\n%s", diff)
	}
}

func TestStatus(t *testing.T) {
	d := newFakeDriver()
	defer d.server.Close()

	// Status is not session scoped; an unstarted client may poll it.
	wd := &remoteWD{urlPrefix: d.server.URL}
	status, err := wd.Status()
	if err != nil {
		t.Fatalf("wd.Status() returned error: %v", err)
	}
	if !status.Ready {
		t.Errorf("status.Ready = false, want true")
	}
}
