// Package selfupdate replaces the running penwise binary with the latest
// GitHub release.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultOwner           = "abhisek"
	defaultRepo            = "penwise"
	defaultBinary          = "penwise"
	defaultAPIBaseURL      = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"
)

// DevVersion is the version string of builds without -ldflags.
const DevVersion = "(devel)"

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// Release is the latest published release.
type Release struct {
	Tag string
	URL string

	// Newer reports whether Tag is a higher semantic version than the
	// version the check was made for.
	Newer bool
}

// Updater checks for and installs releases.
type Updater struct {
	client          *http.Client
	owner, repo     string
	binary          string
	apiBaseURL      string
	downloadBaseURL string
	execPath        func() (string, error)
}

// Option configures an Updater.
type Option func(*Updater)

// WithAPIBaseURL overrides the GitHub API endpoint.
func WithAPIBaseURL(url string) Option {
	return func(u *Updater) { u.apiBaseURL = strings.TrimRight(url, "/") }
}

// WithDownloadBaseURL overrides the host release assets are fetched from.
func WithDownloadBaseURL(url string) Option {
	return func(u *Updater) { u.downloadBaseURL = strings.TrimRight(url, "/") }
}

// WithTimeout bounds every HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(u *Updater) { u.client.Timeout = d }
}

// WithRepository points the updater at another owner/repo.
func WithRepository(owner, repo string) Option {
	return func(u *Updater) { u.owner, u.repo = owner, repo }
}

func withExecPath(fn func() (string, error)) Option {
	return func(u *Updater) { u.execPath = fn }
}

// New creates an Updater for the penwise releases on GitHub.
func New(opts ...Option) *Updater {
	u := &Updater{
		client:          &http.Client{Timeout: 30 * time.Second},
		owner:           defaultOwner,
		repo:            defaultRepo,
		binary:          defaultBinary,
		apiBaseURL:      defaultAPIBaseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		execPath:        os.Executable,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Latest fetches the latest release and compares it with current.
func (u *Updater) Latest(ctx context.Context, current string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", u.apiBaseURL, u.owner, u.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var body struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if !semver.IsValid(canonical(body.TagName)) {
		return nil, fmt.Errorf("release tag %q is not a semantic version", body.TagName)
	}

	return &Release{
		Tag:   body.TagName,
		URL:   body.HTMLURL,
		Newer: isNewer(body.TagName, current),
	}, nil
}

// isNewer reports whether tag is above current. An unparseable current
// version is treated as older than any release.
func isNewer(tag, current string) bool {
	cur := canonical(current)
	if !semver.IsValid(cur) {
		return true
	}
	return semver.Compare(canonical(tag), cur) > 0
}

// canonical adds the "v" prefix semver requires.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
