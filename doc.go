/*
Package webdriver provides a W3C WebDriver client.

The client speaks the WebDriver wire protocol to a browser driver such as
ChromeDriver or geckodriver, or to a Selenium server that proxies one. The
Service type can manage such a driver as a subprocess, or you can point
NewRemote at an already-running endpoint.

Example usage:

	package main

	import (
		"fmt"

		"github.com/urbanroutes/webdriver"
	)

	// Errors are ignored for brevity.

	func main() {
		// Start a ChromeDriver instance and connect to it.
		service, _ := webdriver.NewChromeDriverService("./chromedriver", 9515)
		defer service.Stop()

		caps := webdriver.Capabilities{"browserName": "chrome"}
		wd, _ := webdriver.NewRemote(caps, "http://localhost:9515/wd/hub")
		defer wd.Quit()

		wd.Get("https://play.golang.org/?simple=1")

		// Enter code in the textarea.
		elem, _ := wd.FindElement(webdriver.ByCSSSelector, "#code")
		elem.Clear()
		elem.SendKeys(`package main; func main() {}`)

		// Click the run button and read the output.
		btn, _ := wd.FindElement(webdriver.ByCSSSelector, "#run")
		btn.Click()

		div, _ := wd.FindElement(webdriver.ByCSSSelector, "#output")
		output, _ := div.Text()
		fmt.Printf("Got: %s\n", output)
	}
*/
package webdriver
