package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// File describes how to download a file from the Web.
type File struct {
	url      string
	Name     string
	hash     string
	hashType string // default is sha256
	Rename   []string
	Browser  bool
	// The directory in which to store the file.
	directory string
}

func (f File) Path() string {
	if f.directory != "" {
		return filepath.Join(f.directory, f.Name)
	}
	return f.Name
}

var (
	// ChromeDriverFile describes how to download the ChromeDriver binary.
	ChromeDriverFile = File{
		url:  "https://chromedriver.storage.googleapis.com/76.0.3809.25/chromedriver_linux64.zip",
		Name: "chromedriver.zip",
		hash: "0a264a8b2fa881edf33657ba88709ae3dbaec72d8b41beebf1c89d5e3bc3e594",
	}

	// GeckodriverFile describes how to download the Geckodriver binary.
	GeckodriverFile = File{
		url:  "https://github.com/mozilla/geckodriver/releases/download/v0.24.0/geckodriver-v0.24.0-linux64.tar.gz",
		Name: "geckodriver.tar.gz",
		hash: "03be3d3b16b57e0f3e7e8ba7c1e4bf090620c147e6804f6c6f3203864f5e3784",
	}

	// FirefoxNightlyFile describes how to download the nightly Firefox binary.
	FirefoxNightlyFile = File{
		// This is a recent nightly. Update this path periodically.
		url:     "https://download.mozilla.org/?product=firefox-nightly-latest-ssl&os=linux64&lang=en-US",
		Name:    "firefox-nightly.tar.bz2",
		Browser: true,
		Rename:  []string{"firefox", "firefox-nightly"},
	}
)

// geckoDriverAsset matches the linux64 asset of a geckodriver release.
var geckoDriverAsset = regexp.MustCompile(`^geckodriver-v.*-linux64\.tar\.gz$`)

// minGeckoDriverVersion is the oldest geckodriver release that implements the
// actions endpoints.
var minGeckoDriverVersion = semver.MustParse("0.23.0")

// AllFiles includes all binary dependencies required to test this package
// against pinned browser and driver versions.
func AllFiles(ctx context.Context) ([]File, error) {
	allFiles := []File{
		ChromeDriverFile, GeckodriverFile, FirefoxNightlyFile,
	}

	chrome, err := ChromeSnapshotFile(ctx)
	if err != nil {
		return nil, err
	}
	return append(allFiles, chrome), nil
}

// LatestFiles includes the same binary dependencies as AllFiles, resolved to
// their latest released versions instead of the pinned ones.
func LatestFiles(ctx context.Context) ([]File, error) {
	gecko, err := LatestGeckoDriverFile(ctx)
	if err != nil {
		return nil, err
	}
	chrome, err := ChromeSnapshotFile(ctx)
	if err != nil {
		return nil, err
	}
	chromeDriver, err := ChromeSnapshotDriverFile(ctx)
	if err != nil {
		return nil, err
	}
	return []File{FirefoxNightlyFile, gecko, chrome, chromeDriver}, nil
}

// LatestGeckoDriverFile returns a File that describes how to download the
// latest released Geckodriver binary.
func LatestGeckoDriverFile(ctx context.Context) (File, error) {
	client := github.NewClient(nil)
	rel, _, err := client.Repositories.GetLatestRelease(ctx, "mozilla", "geckodriver")
	if err != nil {
		return File{}, fmt.Errorf("cannot fetch the latest geckodriver release: %v", err)
	}
	tag := rel.GetTagName()
	v, err := semver.ParseTolerant(tag)
	if err != nil {
		return File{}, fmt.Errorf("cannot parse geckodriver release tag %q: %v", tag, err)
	}
	if v.LT(minGeckoDriverVersion) {
		return File{}, fmt.Errorf("geckodriver release %s is older than the minimum supported release %s", tag, minGeckoDriverVersion)
	}
	for _, a := range rel.Assets {
		if !geckoDriverAsset.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s does not have a download URL", a.GetName())
		}
		return File{
			url:  u,
			Name: "geckodriver.tar.gz",
		}, nil
	}
	return File{}, fmt.Errorf("geckodriver release %s has no linux64 asset", tag)
}

const (
	// Bucket URL: https://console.cloud.google.com/storage/browser/chromium-browser-continuous/?pli=1
	chromeStorageBktName = "chromium-browser-snapshots"
	chromePrefixLinux64  = "Linux_x64"
	chromeLastChangeFile = "Linux_x64/LAST_CHANGE"
)

// ChromeSnapshotFile returns a File that describes how to download the latest
// Chrome snapshot.
func ChromeSnapshotFile(ctx context.Context) (File, error) {
	return chromeSnapshotObject(ctx, "chrome-linux.zip", nil)
}

// ChromeSnapshotDriverFile returns a File that describes how to download the
// ChromeDriver binary that matches the latest Chrome snapshot.
func ChromeSnapshotDriverFile(ctx context.Context) (File, error) {
	f, err := chromeSnapshotObject(ctx, "chromedriver_linux64.zip", []string{"chromedriver_linux64/chromedriver", "chromedriver"})
	if err != nil {
		return File{}, err
	}
	f.Name = "chromedriver.zip"
	f.Browser = false
	return f, nil
}

func chromeSnapshotObject(ctx context.Context, filename string, rename []string) (File, error) {
	gcsPath := fmt.Sprintf("gs://%s/", chromeStorageBktName)
	client, err := storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		return File{}, fmt.Errorf("cannot create a storage client for downloading the chrome browser: %v", err)
	}

	bkt := client.Bucket(chromeStorageBktName)
	r, err := bkt.Object(chromeLastChangeFile).NewReader(ctx)
	if err != nil {
		return File{}, fmt.Errorf("cannot create a reader for %s%s file: %v", gcsPath, chromeLastChangeFile, err)
	}
	defer r.Close()

	// Read the last change file content for the latest build directory name
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("cannot read from %s%s file: %v", gcsPath, chromeLastChangeFile, err)
	}

	latestChromeBuild := string(data)
	latestChromePackage := path.Join(chromePrefixLinux64, latestChromeBuild, filename)
	cpAttrs, err := bkt.Object(latestChromePackage).Attrs(ctx)
	if err != nil {
		return File{}, fmt.Errorf("cannot get the chrome package %s%s attrs: %v", gcsPath, latestChromePackage, err)
	}

	return File{
		Name:     filename,
		Browser:  true,
		hash:     hex.EncodeToString(cpAttrs.MD5),
		hashType: "md5",
		url:      cpAttrs.MediaLink,
		Rename:   rename,
	}, nil
}

// Download a file if it is not already present. If directory is the empty
// string, the files will be downloaded to the current directory.
func Download(file File, directory string) error {
	file.directory = directory

	if file.hash != "" && fileSameHash(file) {
		glog.Infof("Skipping file %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.url)
		if err := downloadFile(file); err != nil {
			return err
		}
	}

	if err := unzipArchive(file); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(file.directory, rename[0])
		to := filepath.Join(file.directory, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

// DownloadAll fetches every file from AllFiles, or from LatestFiles when
// latest is true, into the given directory. Browser archives are skipped when
// browsers is false.
func DownloadAll(ctx context.Context, directory string, latest, browsers bool) error {
	allFiles, err := AllFiles(ctx)
	if latest {
		allFiles, err = LatestFiles(ctx)
	}
	if err != nil {
		return err
	}

	var wg errgroup.Group
	for _, file := range allFiles {
		file := file
		if file.Browser && !browsers {
			glog.Infof("Skipping %q because browser downloads are disabled.", file.Name)
			continue
		}
		wg.Go(func() error {
			if err := Download(file, directory); err != nil {
				return fmt.Errorf("error handling %s: %s", file.Name, err)
			}
			return nil
		})
	}
	return wg.Wait()
}

func downloadFile(file File) (err error) {
	f, err := os.Create(file.Path())
	if err != nil {
		return fmt.Errorf("error creating %q: %v", file.Path(), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %v", file.Path(), closeErr)
		}
	}()

	resp, err := http.Get(file.url)
	if err != nil {
		return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.url, err)
	}
	defer resp.Body.Close()
	if file.hash != "" {
		var h hash.Hash
		switch strings.ToLower(file.hashType) {
		case "md5":
			h = md5.New()
		case "sha1":
			h = sha1.New()
		default:
			h = sha256.New()
		}
		if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
			return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.url, err)
		}
		if h := hex.EncodeToString(h.Sum(nil)); h != file.hash {
			return fmt.Errorf("%s: got %s hash %q, want %q", file.Name, file.hashType, h, file.hash)
		}
	} else {
		if _, err := io.Copy(f, resp.Body); err != nil {
			return fmt.Errorf("%s: error downloading %q: %v", file.Name, file.url, err)
		}
	}
	return nil
}

func fileSameHash(file File) bool {
	if _, err := os.Stat(file.Path()); err != nil {
		return false
	}
	var h hash.Hash
	switch strings.ToLower(file.hashType) {
	case "md5":
		h = md5.New()
	default:
		h = sha256.New()
	}
	f, err := os.Open(file.Path())
	if err != nil {
		return false
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return false
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", file.Name, sum, file.hash)
		return false
	}
	return true
}

func unzipArchive(file File) error {
	var unzipCmd []string

	dir := "."
	if file.directory != "" {
		dir = file.directory
	}

	switch path.Ext(file.Name) {
	case ".zip":
		unzipCmd = []string{"unzip", "-d", dir, "-o", file.Path()}
	case ".gz":
		unzipCmd = []string{"tar", "-xzf", file.Path(), "-C", dir}
	case ".bz2":
		unzipCmd = []string{"tar", "-xjf", file.Path(), "-C", dir}
	default:
		return nil
	}

	glog.Infof("Unzipping %q", file.Path())
	if err := exec.Command(unzipCmd[0], unzipCmd[1:]...).Run(); err != nil {
		return fmt.Errorf("error unzipping %q: %v", file.Name, err)
	}

	return nil
}
