package routes

import (
	"net/http"

	"github.com/urbanroutes/webdriver"
)

// IsReachable reports whether the application answers the given URL with
// HTTP 200. The suite uses it as a pre-flight check before driving the UI.
func IsReachable(url string) bool {
	resp, err := webdriver.GetHTTPClient().Get(url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
