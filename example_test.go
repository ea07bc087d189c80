package webdriver_test

import (
	"fmt"
	"os"

	"github.com/urbanroutes/webdriver"
	"github.com/urbanroutes/webdriver/chrome"
	"github.com/urbanroutes/webdriver/log"
	"github.com/urbanroutes/webdriver/routes"
)

// This example shows how to start a ChromeDriver instance, open the Urban
// Routes application and order a ride on the Supportive plan.
//
// If you want to actually run this example:
//
//  1. Ensure the file paths and the server URL at the top of the function
//     are correct.
//  2. Remove the word "Example" from the comment at the bottom of the
//     function.
//  3. Run:
//     go test -test.run=Example$ github.com/urbanroutes/webdriver
func Example() {
	const (
		// These paths will be different on your system. Run
		// cmd/fetchdrivers to download a ChromeDriver binary.
		chromeDriverPath = "drivers/chromedriver"
		port             = 8080
		serverURL        = "https://urban-routes.example.com"
	)
	opts := []webdriver.ServiceOption{
		webdriver.StartFrameBuffer(), // Start an X frame buffer for the browser to run in.
		webdriver.Output(os.Stderr),  // Output debug information to STDERR.
	}
	webdriver.SetDebug(true)
	service, err := webdriver.NewChromeDriverService(chromeDriverPath, port, opts...)
	if err != nil {
		panic(err) // panic is used only as an example and is not otherwise recommended.
	}
	defer service.Stop()

	// Connect to the WebDriver instance running locally. Performance
	// logging must be on so that the confirmation code can be read back
	// from the network log.
	caps := webdriver.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Args: []string{"--no-sandbox"},
		W3C:  true,
		PerfLoggingPrefs: &chrome.PerfLoggingPreferences{
			EnableNetwork: boolRef(true),
		},
	})
	caps.SetLogLevel(log.Performance, log.All)
	wd, err := webdriver.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		panic(err)
	}
	defer wd.Quit()

	if err := wd.Get(serverURL); err != nil {
		panic(err)
	}

	page := routes.NewPage(wd)
	if err := page.WaitForLoad(); err != nil {
		panic(err)
	}

	// Set the route and ask for a car on the Supportive plan.
	if err := page.SetFromAddress("East 2nd Street, 601"); err != nil {
		panic(err)
	}
	if err := page.SetToAddress("1300 1st St"); err != nil {
		panic(err)
	}
	if err := page.CallTaxi(); err != nil {
		panic(err)
	}
	if err := page.SelectSupportivePlan(); err != nil {
		panic(err)
	}

	// Confirm the phone number with the code from the SMS the backend
	// pretends to send.
	if err := page.ClickPhoneField(); err != nil {
		panic(err)
	}
	if err := page.FillPhoneNumber("+1 123 123 12 12"); err != nil {
		panic(err)
	}
	if err := page.ClickNext(); err != nil {
		panic(err)
	}
	code, err := routes.RetrievePhoneCode(wd)
	if err != nil {
		panic(err)
	}
	if err := page.FillSMSCode(code); err != nil {
		panic(err)
	}
	if err := page.ClickConfirm(); err != nil {
		panic(err)
	}

	// Order the ride.
	if err := page.OrderBlanketAndHandkerchiefs(); err != nil {
		panic(err)
	}
	if err := page.WaitForCarSearchModal(); err != nil {
		panic(err)
	}

	fmt.Println("Car ordered")

	// Example Output: Car ordered
}

func boolRef(b bool) *bool { return &b }
