// Package blob mirrors Azure Blob Storage containers into local
// directories so vector collections built from mounted volumes can fall
// back to a SAS-synced copy.
package blob

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

type Syncer struct {
	logger *log.Logger
}

func NewSyncer(logger *log.Logger) *Syncer {
	return &Syncer{logger: logger}
}

// Sync downloads every blob from the container behind sasURL into
// destDir, preserving blob names as relative paths. Existing files are
// skipped unless overwrite is set. Returns the number of blobs written.
func (s *Syncer) Sync(ctx context.Context, sasURL, destDir string, overwrite bool) (int, error) {
	client, err := container.NewClientWithNoCredential(sasURL, nil)
	if err != nil {
		return 0, fmt.Errorf("container client: %w", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create dest dir: %w", err)
	}

	written := 0
	pager := client.NewListBlobsFlatPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return written, fmt.Errorf("list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			name := *item.Name
			localPath, err := safeJoin(destDir, name)
			if err != nil {
				s.logger.Printf("[BLOB] Skipping %q: %v", name, err)
				continue
			}
			if !overwrite {
				if _, err := os.Stat(localPath); err == nil {
					continue
				}
			}
			if err := s.download(ctx, client, name, localPath); err != nil {
				return written, fmt.Errorf("download %s: %w", name, err)
			}
			written++
		}
	}

	s.logger.Printf("[BLOB] Synced %d blob(s) into %s", written, destDir)
	return written, nil
}

func (s *Syncer) download(ctx context.Context, client *container.Client, name, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}

	resp, err := client.NewBlobClient(name).DownloadStream(ctx, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(localPath)
		return err
	}
	return f.Close()
}

// safeJoin rejects blob names that would escape the destination root.
func safeJoin(root, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("unsafe blob name")
	}
	return filepath.Join(root, cleaned), nil
}

// ChooseDir resolves the directory a vector collection should load
// from. A populated mountDir wins; otherwise the SAS container is
// mirrored into syncDir when a URL is configured; otherwise defaultDir
// is returned as-is.
func (s *Syncer) ChooseDir(ctx context.Context, mountDir, sasURL, syncDir, defaultDir string, force, overwrite bool) (string, error) {
	if mountDir != "" && dirHasFiles(mountDir) && !force {
		s.logger.Printf("[BLOB] Using mounted dir %s", mountDir)
		return mountDir, nil
	}

	if sasURL != "" {
		if force || !dirHasFiles(syncDir) {
			if _, err := s.Sync(ctx, sasURL, syncDir, overwrite); err != nil {
				return "", err
			}
		}
		return syncDir, nil
	}

	return defaultDir, nil
}

func dirHasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	return len(entries) > 0
}
