package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"darwin", "amd64", "penwise_Darwin_all.tar.gz", false},
		{"darwin", "arm64", "penwise_Darwin_all.tar.gz", false},
		{"linux", "amd64", "penwise_Linux_x86_64.tar.gz", false},
		{"linux", "arm64", "penwise_Linux_arm64.tar.gz", false},
		{"linux", "386", "penwise_Linux_i386.tar.gz", false},
		{"windows", "amd64", "penwise_Windows_x86_64.zip", false},
		{"freebsd", "amd64", "", true},
		{"linux", "mips", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetFor("penwise", tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChecksums(t *testing.T) {
	got := parseChecksums([]byte("ABC123  a.tar.gz\nbadline\n\nx y z\ndef456 *b.zip\n"))
	assert.Equal(t, map[string]string{"a.tar.gz": "abc123", "b.zip": "def456"}, got)
	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)

	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))
	assert.ErrorIs(t, verifyChecksum(data, strings.Repeat("0", 64)), ErrChecksum)
}

func TestUnpackTarGz(t *testing.T) {
	content := []byte("#!/bin/sh\necho penwise")

	got, err := unpack(buildTarGz(t, "dist/penwise", content), "penwise_Linux_x86_64.tar.gz", "penwise")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = unpack(buildTarGz(t, "README.md", content), "penwise_Linux_x86_64.tar.gz", "penwise")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReplaceExecutableKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "penwise")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	require.NoError(t, replaceExecutable(target, []byte("new")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

// releaseHost serves the latest-release API, one archive and checksums.txt.
func releaseHost(t *testing.T, tag, asset string, archive []byte, sums string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		download := "/abhisek/penwise/releases/download/" + tag + "/"
		switch r.URL.Path {
		case "/repos/abhisek/penwise/releases/latest":
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
		case download + asset:
			_, _ = w.Write(archive)
		case download + "checksums.txt":
			_, _ = w.Write([]byte(sums))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInstall(t *testing.T) {
	asset, err := assetFor(defaultBinary, runtime.GOOS, runtime.GOARCH)
	if err != nil || strings.HasSuffix(asset, ".zip") {
		t.Skip("no tar.gz release for this platform")
	}
	content := []byte("new-penwise-binary")
	archive := buildTarGz(t, "penwise", content)
	sum := sha256.Sum256(archive)
	goodSums := fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), asset)

	newUpdater := func(t *testing.T, server *httptest.Server) (*Updater, string) {
		exe := filepath.Join(t.TempDir(), "penwise")
		require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))
		return New(
			WithAPIBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return exe, nil }),
		), exe
	}

	t.Run("latest release", func(t *testing.T) {
		u, exe := newUpdater(t, releaseHost(t, "v2.0.0", asset, archive, goodSums))

		var stages []Stage
		tag, err := u.Install(context.Background(), "v1.0.0", "", func(p Progress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)
		assert.Equal(t, "v2.0.0", tag)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)
	})

	t.Run("pinned tag skips the check", func(t *testing.T) {
		u, _ := newUpdater(t, releaseHost(t, "v1.5.0", asset, archive, goodSums))

		var stages []Stage
		tag, err := u.Install(context.Background(), "v2.0.0", "v1.5.0", func(p Progress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)
		assert.Equal(t, "v1.5.0", tag)
		assert.NotContains(t, stages, StageCheck)
	})

	t.Run("dev build", func(t *testing.T) {
		_, err := New().Install(context.Background(), DevVersion, "", nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		u, _ := newUpdater(t, releaseHost(t, "v1.0.0", asset, archive, goodSums))
		_, err := u.Install(context.Background(), "v1.0.0", "", nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch leaves binary alone", func(t *testing.T) {
		bad := fmt.Sprintf("%s  %s\n", strings.Repeat("0", 64), asset)
		u, exe := newUpdater(t, releaseHost(t, "v2.0.0", asset, archive, bad))

		_, err := u.Install(context.Background(), "v1.0.0", "", nil)
		assert.ErrorIs(t, err, ErrChecksum)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, []byte("old"), got)
	})

	t.Run("missing archive", func(t *testing.T) {
		u, _ := newUpdater(t, releaseHost(t, "v2.0.0", "other.tar.gz", archive, goodSums))
		_, err := u.Install(context.Background(), "v1.0.0", "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
