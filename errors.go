package webdriver

import (
	"encoding/json"
	"fmt"
)

// ErrorKind is the classified category of a command failure reported by the
// remote end.
type ErrorKind string

// The kinds this client distinguishes. Anything else the remote end reports
// classifies as WebDriverError with the raw response retained.
const (
	NoSuchElement   ErrorKind = "no such element"
	InvalidArgument ErrorKind = "invalid argument"
	NoSuchCookie    ErrorKind = "no such cookie"
	JavascriptError ErrorKind = "javascript error"
	WebDriverError  ErrorKind = "webdriver error"
)

// errorKinds maps W3C error tokens to the kinds above. Tokens absent from
// this table classify as WebDriverError.
var errorKinds = map[string]ErrorKind{
	"no such element":  NoSuchElement,
	"invalid argument": InvalidArgument,
	"no such cookie":   NoSuchCookie,
	"javascript error": JavascriptError,
}

// legacySuccess is the status of a command executed without error on remote
// ends that speak the pre-W3C wire protocol.
const legacySuccess = 0

// legacyErrorKinds maps pre-W3C numeric statuses to kinds, for the codes
// that have a counterpart in the closed set above.
var legacyErrorKinds = map[int]ErrorKind{
	7:  NoSuchElement,
	17: JavascriptError,
}

// remoteErrors gives the error tokens that the protocol later standardized
// for the pre-W3C numeric statuses.
var remoteErrors = map[int]string{
	7:  "no such element",
	8:  "no such frame",
	9:  "unknown command",
	10: "stale element reference",
	11: "element not visible",
	12: "invalid element state",
	13: "unknown error",
	15: "element is not selectable",
	17: "javascript error",
	19: "xpath lookup error",
	21: "timeout",
	23: "no such window",
	24: "invalid cookie domain",
	25: "unable to set cookie",
	26: "unexpected alert open",
	27: "no such alert",
	28: "script timeout",
	29: "invalid element coordinates",
	32: "invalid selector",
}

// CommandError is a command that reached the remote end and was rejected
// there. Callers must not blindly retry one; a rejected command stays
// rejected (retrying a "no such element" lookup without a page change is
// never correct).
type CommandError struct {
	// Kind is the classified category of the failure.
	Kind ErrorKind

	// ServerError is the error token exactly as the remote end sent it. For
	// classified kinds it equals string(Kind); for WebDriverError it retains
	// whatever the remote end said.
	ServerError string

	// Message is the human-readable message sourced from the remote end.
	Message string

	// StackTrace is the remote end's stack trace, when it sent one.
	StackTrace string

	// LegacyStatus is the numeric status code, set only when the remote end
	// spoke the pre-W3C wire protocol.
	LegacyStatus *int

	// Raw is the undecoded response body, retained when Kind is
	// WebDriverError so unclassified failures keep their diagnostics.
	Raw []byte
}

func (e *CommandError) Error() string {
	token := e.ServerError
	if token == "" {
		token = string(e.Kind)
	}
	if e.Message == "" {
		return token
	}
	return token + ": " + e.Message
}

// Is reports whether target is a CommandError of the same kind, so callers
// can match on kind with errors.Is. A target with an empty kind matches any
// CommandError.
func (e *CommandError) Is(target error) bool {
	t, ok := target.(*CommandError)
	return ok && (t.Kind == "" || t.Kind == e.Kind)
}

// TransportError is a failure to exchange a command with the remote end:
// connection errors, client-side timeouts, and undecodable response bodies.
// Distinct from CommandError because a transport failure leaves unknown
// whether the remote end acted on the command, and may be worth retrying.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// SessionStartError is a failure to create a session: the endpoint was
// unreachable, replied with a malformed body, or rejected the requested
// capabilities.
type SessionStartError struct {
	URLPrefix string
	Err       error
}

func (e *SessionStartError) Error() string {
	return fmt.Sprintf("new session at %s: %v", filteredURL(e.URLPrefix), e.Err)
}

func (e *SessionStartError) Unwrap() error { return e.Err }

// InvalidStateError is a session operation issued outside its lifecycle
// window, such as a command dispatched before NewSession or after Quit. The
// operation is refused locally; nothing is sent to the remote end.
type InvalidStateError struct {
	State   sessionState
	Command string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: session is %s", e.Command, e.State)
}

// classifyError maps a decoded error reply onto the closed kind set. It
// understands both the W3C error object and the legacy numeric status, and
// falls back to WebDriverError with the raw body retained when neither names
// a known kind.
func classifyError(httpStatus int, reply *serverReply, buf []byte) *CommandError {
	var v struct {
		Err        string `json:"error"`
		Message    string `json:"message"`
		StackTrace string `json:"stacktrace"`
	}
	if len(reply.Value) > 0 && json.Unmarshal(reply.Value, &v) == nil && v.Err != "" {
		ce := &CommandError{ServerError: v.Err, Message: v.Message, StackTrace: v.StackTrace}
		if kind, ok := errorKinds[v.Err]; ok {
			ce.Kind = kind
		} else {
			ce.Kind = WebDriverError
			ce.Raw = buf
		}
		return ce
	}

	if reply.Status != nil {
		status := *reply.Status
		ce := &CommandError{LegacyStatus: &status, Message: legacyMessage(reply.Value)}
		if kind, ok := legacyErrorKinds[status]; ok {
			ce.Kind = kind
			ce.ServerError = string(kind)
		} else {
			ce.Kind = WebDriverError
			ce.ServerError = remoteErrors[status]
			ce.Raw = buf
		}
		return ce
	}

	return &CommandError{
		Kind:    WebDriverError,
		Message: fmt.Sprintf("server returned HTTP status %d", httpStatus),
		Raw:     buf,
	}
}

// legacyMessage extracts the message from a legacy error value, which may be
// either an object with a message field or a bare string.
func legacyMessage(value json.RawMessage) string {
	if len(value) == 0 {
		return ""
	}
	var m struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(value, &m) == nil && m.Message != "" {
		return m.Message
	}
	var s string
	if json.Unmarshal(value, &s) == nil {
		return s
	}
	return ""
}
