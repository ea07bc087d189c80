package routes

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/chromedp/cdproto"
	"github.com/chromedp/cdproto/network"
	"github.com/mailru/easyjson"

	"github.com/urbanroutes/webdriver"
	"github.com/urbanroutes/webdriver/log"
)

// numberRequestMarker identifies the network request through which the
// application asks the backend to issue a phone confirmation code.
const numberRequestMarker = "api/v1/number?number"

const (
	phoneCodeAttempts      = 10
	phoneCodeRetryInterval = 100 * time.Millisecond
)

// RetrievePhoneCode extracts the phone confirmation code from the response
// the application received for its number-confirmation request. The session
// must have been started with performance logging enabled, and the code must
// already have been requested in the application (via ClickNext) before
// calling this.
//
// The confirmation response may trail the click by a moment, so the
// performance log is polled a bounded number of times.
func RetrievePhoneCode(wd webdriver.WebDriver) (string, error) {
	var lastErr error
	for attempt := 0; attempt < phoneCodeAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(phoneCodeRetryInterval)
		}
		code, err := phoneCodeFromLog(wd)
		if err != nil {
			lastErr = err
			continue
		}
		if code != "" {
			return code, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("retrieving phone confirmation code: %v", lastErr)
	}
	return "", errors.New("no phone confirmation code found; request the code in the application before calling RetrievePhoneCode")
}

// phoneCodeFromLog scans the accumulated performance log entries, newest
// first, for the confirmation response and returns its digits.
func phoneCodeFromLog(wd webdriver.WebDriver) (string, error) {
	entries, err := wd.Log(log.Performance)
	if err != nil {
		return "", err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		id, ok := confirmationRequestID(entries[i].Message)
		if !ok {
			continue
		}
		body, err := responseBody(wd, id)
		if err != nil {
			return "", err
		}
		if code := digits(body); code != "" {
			return code, nil
		}
	}
	return "", nil
}

// confirmationRequestID decodes a performance log entry and, when the entry
// describes the response to the number-confirmation request, returns the id
// under which ChromeDriver knows that network request.
func confirmationRequestID(message string) (network.RequestID, bool) {
	if !strings.Contains(message, numberRequestMarker) {
		return "", false
	}
	var envelope struct {
		Message cdproto.Message `json:"message"`
	}
	if err := json.Unmarshal([]byte(message), &envelope); err != nil {
		return "", false
	}
	if envelope.Message.Method != cdproto.EventNetworkResponseReceived {
		return "", false
	}
	var ev network.EventResponseReceived
	if err := easyjson.Unmarshal(envelope.Message.Params, &ev); err != nil {
		return "", false
	}
	if ev.Response == nil || !strings.Contains(ev.Response.URL, numberRequestMarker) {
		return "", false
	}
	return ev.RequestID, true
}

// responseBody fetches the body of a completed network request through
// ChromeDriver's CDP command endpoint.
func responseBody(wd webdriver.WebDriver, id network.RequestID) (string, error) {
	res, err := wd.ExecuteChromeDPCommand("Network.getResponseBody", map[string]interface{}{
		"requestId": id,
	})
	if err != nil {
		return "", err
	}
	reply, ok := res.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected Network.getResponseBody reply of type %T", res)
	}
	body, _ := reply["body"].(string)
	if encoded, _ := reply["base64Encoded"].(bool); encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return "", fmt.Errorf("decoding Network.getResponseBody body: %v", err)
		}
		body = string(decoded)
	}
	return body, nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
