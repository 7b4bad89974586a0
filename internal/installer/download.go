// File: internal/installer/download.go
// Purpose: Streams a selected asset to a temp file before extraction
// Problem: Extraction needs a local file to sniff magic bytes from, and a cancelled context
//          must not leave a half-written file behind
// Role: downloadToTemp drains a Protocol.Download stream into os.CreateTemp
// Usage: tmpFile, err := downloadToTemp(ctx, proto, asset)
// Design choices: plain os.CreateTemp + io.Copy; go-getter handles the archive format itself,
//                 this only needs to get bytes onto disk

package installer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rkinnovate/foreman/internal/provider"
)

func downloadToTemp(ctx context.Context, proto provider.Protocol, asset provider.Asset) (string, error) {
	body, err := proto.Download(ctx, asset)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", asset.Name, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "foreman-asset-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, body); err != nil {
		os.Remove(tmp.Name())
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("write %s to temp file: %w", asset.Name, err)
	}

	return tmp.Name(), nil
}
