package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Stage is a step of Install, reported through the progress callback.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageApply    Stage = "apply"
	StageDone     Stage = "done"
)

type Progress struct {
	Stage   Stage
	Message string
}

// Install replaces the running executable with release tag, or with the
// latest release when tag is empty. It returns the installed tag.
func (u *Updater) Install(ctx context.Context, current, tag string, report func(Progress)) (string, error) {
	if report == nil {
		report = func(Progress) {}
	}
	if current == DevVersion {
		return "", ErrDevBuild
	}

	if tag == "" {
		report(Progress{StageCheck, "Checking for the latest release..."})
		rel, err := u.Latest(ctx, current)
		if err != nil {
			return "", fmt.Errorf("check for updates: %w", err)
		}
		if !rel.Newer {
			return "", ErrAlreadyLatest
		}
		tag = rel.Tag
	}

	asset, err := assetFor(u.binary, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}
	releaseURL := fmt.Sprintf("%s/%s/%s/releases/download/%s", u.downloadBaseURL, u.owner, u.repo, tag)

	report(Progress{StageDownload, fmt.Sprintf("Downloading %s...", asset)})
	archive, err := u.fetch(ctx, releaseURL+"/"+asset)
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}

	report(Progress{StageVerify, "Verifying checksum..."})
	sums, err := u.fetch(ctx, releaseURL+"/checksums.txt")
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return "", fmt.Errorf("%w: %s is not listed in checksums.txt", ErrChecksum, asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return "", err
	}

	report(Progress{StageExtract, "Extracting binary..."})
	bin, err := unpack(archive, asset, executableName(u.binary, asset))
	if err != nil {
		return "", fmt.Errorf("extract binary: %w", err)
	}

	report(Progress{StageApply, "Replacing executable..."})
	target, err := u.execPath()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if target, err = filepath.EvalSymlinks(target); err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceExecutable(target, bin); err != nil {
		return "", fmt.Errorf("apply update: %w", err)
	}

	report(Progress{StageDone, fmt.Sprintf("Updated to %s", tag)})
	return tag, nil
}

// assetFor names the goreleaser archive for a platform, e.g.
// penwise_Linux_x86_64.tar.gz. macOS ships a single universal archive.
func assetFor(binary, goos, goarch string) (string, error) {
	if goos == "darwin" {
		return binary + "_Darwin_all.tar.gz", nil
	}

	arch, ok := map[string]string{"amd64": "x86_64", "arm64": "arm64", "386": "i386"}[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return fmt.Sprintf("%s_Linux_%s.tar.gz", binary, arch), nil
	case "windows":
		return fmt.Sprintf("%s_Windows_%s.zip", binary, arch), nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

func executableName(binary, asset string) string {
	if strings.HasSuffix(asset, ".zip") {
		return binary + ".exe"
	}
	return binary
}

func (u *Updater) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads "<sha256>  <file>" lines. Malformed lines are skipped.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	for line := range strings.Lines(string(data)) {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		sums[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return sums
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

// unpack returns the regular file called name from a .tar.gz or .zip archive.
func unpack(archive []byte, asset, name string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return unpackZip(archive, name)
	}
	return unpackTarGz(archive, name)
}

func unpackTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func unpackZip(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// replaceExecutable writes data beside target, checks what landed on disk
// and renames it over target with target's permissions.
func replaceExecutable(target string, data []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".penwise-update-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	want := sha256.Sum256(data)
	if sha256.Sum256(written) != want {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
