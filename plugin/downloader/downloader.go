// Package downloader fetches the raw Million Song Dataset companion
// files. It is the only place with retry logic; the pipeline itself
// never retries and assumes the files are present. Re-running skips
// files that already exist, so a build never re-downloads.
package downloader

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/danielemorotti/msdset/internal/profile"
)

// File is one remote source file and its destination name inside the
// data directory.
type File struct {
	URL  string
	Name string
}

// DefaultFiles lists the four source files of the build.
func DefaultFiles() []File {
	return []File{
		{URL: "http://millionsongdataset.com/sites/default/files/AdditionalFiles/mxm_dataset_train.txt.zip", Name: "mxm_dataset.zip"},
		{URL: "http://millionsongdataset.com/sites/default/files/AdditionalFiles/track_metadata.db", Name: profile.MetadataDBFile},
		{URL: "http://millionsongdataset.com/sites/default/files/lastfm/lastfm_similars.db", Name: profile.SimilarsDBFile},
		{URL: "http://millionsongdataset.com/sites/default/files/lastfm/lastfm_tags.db", Name: profile.TagsDBFile},
	}
}

// Downloader fetches source files into a data directory.
type Downloader struct {
	client *resty.Client
	dir    string
	logger *slog.Logger
}

// New creates a Downloader writing into dir.
func New(dir string, logger *slog.Logger) *Downloader {
	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetTimeout(30 * time.Minute)
	return &Downloader{
		client: client,
		dir:    dir,
		logger: logger,
	}
}

// FetchAll downloads every file concurrently, skipping files already
// present, and unpacks zip archives into the data directory.
func (d *Downloader) FetchAll(ctx context.Context, files []File) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		g.Go(func() error {
			return d.fetch(ctx, file)
		})
	}
	return g.Wait()
}

func (d *Downloader) fetch(ctx context.Context, file File) error {
	dest := filepath.Join(d.dir, file.Name)
	if _, err := os.Stat(dest); err == nil {
		d.logger.Info("file already present", slog.String("path", dest))
	} else {
		d.logger.Info("downloading file", slog.String("url", file.URL), slog.String("path", dest))
		resp, err := d.client.R().
			SetContext(ctx).
			SetOutput(dest).
			Get(file.URL)
		if err != nil {
			return errors.Wrapf(err, "failed to download %s", file.URL)
		}
		if resp.IsError() {
			return errors.Errorf("failed to download %s: status %s", file.URL, resp.Status())
		}
	}

	if strings.HasSuffix(file.Name, ".zip") {
		if err := unpack(dest, d.dir); err != nil {
			return err
		}
	}
	return nil
}

// unpack extracts a zip archive into dir, skipping entries that were
// already extracted.
func unpack(archivePath, dir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		name := filepath.Base(entry.Name)
		if entry.FileInfo().IsDir() || name == "" {
			continue
		}
		dest := filepath.Join(dir, name)
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := extractEntry(entry, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open archive entry %s", entry.Name)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dest)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to extract %s", entry.Name)
	}
	return out.Close()
}
