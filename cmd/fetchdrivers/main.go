// Binary fetchdrivers downloads the browser and driver binaries needed to
// run the integration tests.
package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/urbanroutes/webdriver/internal/download"
)

var (
	downloadBrowsers = flag.Bool("download_browsers", true, "If true, download the Firefox and Chrome browsers.")
	downloadLatest   = flag.Bool("download_latest", false, "If true, download the latest versions.")
	directory        = flag.String("directory", "drivers", "The directory in which to store the downloaded files.")
)

func main() {
	flag.Parse()
	if err := download.DownloadAll(context.Background(), *directory, *downloadLatest, *downloadBrowsers); err != nil {
		glog.Exit(err)
	}
}
