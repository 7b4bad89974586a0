// File: internal/cache/extract.go
// Purpose: Detects archive format by magic bytes and extracts into the tool directory
// Problem: Assets arrive as zip or tar.gz with no reliable extension, and some drop execute bits
// Role: Extract(tmpFile, destDir) picks the right hashicorp/go-getter Decompressor and fixes permissions
// Role: PrimaryExecutable(destDir, alias, repo) locates the binary to trampoline to
// Usage: err := cache.Extract(downloadedPath, destDir); exe, err := cache.PrimaryExecutable(destDir, alias, repo)
// Design choices: hashicorp/go-getter's Decompressor implementations (shipyard-run-version-manager's
//                 go.mod dependency) do the archive walking; this file only does format sniffing,
//                 the Unix permission fix-up, and primary-executable selection

package cache

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/rkinnovate/foreman/internal/foreman"
)

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	gzipMagic = []byte{0x1f, 0x8b}
)

// sniff reads the first few bytes of path to identify its archive
// format by magic number, per spec.md §4.5.
func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s for sniffing: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read header of %s: %w", path, err)
	}
	header = header[:n]

	if bytes.HasPrefix(header, zipMagic) {
		return "zip", nil
	}
	if bytes.HasPrefix(header, gzipMagic) {
		return "tgz", nil
	}
	return "bare", nil
}

// Extract detects downloadedPath's archive format and extracts it into
// destDir. A "bare" format (no recognized magic bytes) is treated as
// an unwrapped executable and copied directly in as the only file.
func Extract(downloadedPath, destDir string) error {
	format, err := sniff(downloadedPath)
	if err != nil {
		return foreman.Wrap(foreman.KindExtraction, "", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return foreman.Wrap(foreman.KindExtraction, "", fmt.Errorf("create dest dir: %w", err))
	}

	switch format {
	case "zip":
		d := new(getter.ZipDecompressor)
		if err := d.Decompress(destDir, downloadedPath, true, 0); err != nil {
			return foreman.Wrap(foreman.KindExtraction, "", fmt.Errorf("extract zip: %w", err))
		}
	case "tgz":
		d := new(getter.TarGzipDecompressor)
		if err := d.Decompress(destDir, downloadedPath, true, 0); err != nil {
			return foreman.Wrap(foreman.KindExtraction, "", fmt.Errorf("extract tar.gz: %w", err))
		}
	case "bare":
		if err := copyBareExecutable(downloadedPath, destDir); err != nil {
			return foreman.Wrap(foreman.KindExtraction, "", err)
		}
	default:
		return foreman.Wrap(foreman.KindExtraction, "", fmt.Errorf("unrecognized archive format for %s", downloadedPath))
	}

	if runtime.GOOS != "windows" {
		if err := fixPermissions(destDir); err != nil {
			return foreman.Wrap(foreman.KindExtraction, "", err)
		}
	}

	return nil
}

func copyBareExecutable(src, destDir string) error {
	name := filepath.Base(src)
	dest := filepath.Join(destDir, name)

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open downloaded file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("create executable copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy executable: %w", err)
	}
	return nil
}

// fixPermissions sets 0777 on every regular file under destDir,
// working around archives that were built without execute bits set.
func fixPermissions(destDir string) error {
	return filepath.WalkDir(destDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return os.Chmod(path, 0o777)
	})
}

// PrimaryExecutable locates the binary to trampoline to within an
// extracted tool directory: the single regular file if there's only
// one, otherwise the file whose stem matches alias case-insensitively,
// falling back to the repo's last path segment.
func PrimaryExecutable(destDir, alias, repo string) (string, error) {
	var files []string
	err := filepath.WalkDir(destDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", foreman.Wrap(foreman.KindExtraction, alias, fmt.Errorf("walk extracted tree: %w", err))
	}

	if len(files) == 0 {
		return "", foreman.Wrap(foreman.KindExtraction, alias, fmt.Errorf("archive for %s extracted no files", alias))
	}
	if len(files) == 1 {
		return files[0], nil
	}

	if match := findByStem(files, alias); match != "" {
		return match, nil
	}

	repoName := repo
	if idx := strings.LastIndex(repo, "/"); idx >= 0 {
		repoName = repo[idx+1:]
	}
	if match := findByStem(files, repoName); match != "" {
		return match, nil
	}

	return "", foreman.Wrap(foreman.KindExtraction, alias,
		fmt.Errorf("cannot identify primary executable among %d extracted files for %s", len(files), alias))
}

func findByStem(files []string, stem string) string {
	for _, f := range files {
		base := filepath.Base(f)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		if strings.EqualFold(base, stem) {
			return f
		}
	}
	return ""
}
