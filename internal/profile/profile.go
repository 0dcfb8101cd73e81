package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Source file names inside the data directory, as downloaded from
// millionsongdataset.com.
const (
	MxmDatasetFile = "mxm_dataset_train.txt"
	MetadataDBFile = "mxm_metadata.db"
	TagsDBFile     = "lastfm_tags.db"
	SimilarsDBFile = "lastfm_similar_songs.db"
)

// Profile is the configuration for a single dataset build run.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Data is the directory holding the downloaded source files
	Data string
	// Output is the directory the derived datasets are written to
	Output string
	// ValidationSize is the fraction of the GNN candidate pool sampled
	// into the validation split
	ValidationSize float64
	// Seed seeds the train/validation sampler. 0 means seed from the
	// current time, which makes the split differ between runs.
	Seed int64
	// SkipDownload skips fetching source files and requires them to be
	// already present in Data
	SkipDownload bool
	// EvalPolicy selects the evaluation filtering policy ("two-pass" or
	// "single-pass")
	EvalPolicy string
	// Version is the current version of the builder
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// MxmDatasetPath returns the path of the musiXmatch word-count file.
func (p *Profile) MxmDatasetPath() string {
	return filepath.Join(p.Data, MxmDatasetFile)
}

// MetadataDBPath returns the path of the track metadata database.
func (p *Profile) MetadataDBPath() string {
	return filepath.Join(p.Data, MetadataDBFile)
}

// TagsDBPath returns the path of the Last.fm tags database.
func (p *Profile) TagsDBPath() string {
	return filepath.Join(p.Data, TagsDBFile)
}

// SimilarsDBPath returns the path of the Last.fm similar songs database.
func (p *Profile) SimilarsDBPath() string {
	return filepath.Join(p.Data, SimilarsDBFile)
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from MSDSET_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("MSDSET_MODE", p.Mode)
	p.Data = getEnvOrDefault("MSDSET_DATA", p.Data)
	p.Output = getEnvOrDefault("MSDSET_OUTPUT", p.Output)
	p.EvalPolicy = getEnvOrDefault("MSDSET_EVAL_POLICY", p.EvalPolicy)

	if v := os.Getenv("MSDSET_VALIDATION_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.ValidationSize = f
		}
	}
	if v := os.Getenv("MSDSET_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.Seed = n
		}
	}
	if os.Getenv("MSDSET_SKIP_DOWNLOAD") == "true" {
		p.SkipDownload = true
	}
}

func checkDir(dir string, create bool) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dir) {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		dir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dir = strings.TrimRight(dir, "\\/")
	if _, err := os.Stat(dir); err != nil {
		if !create || !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "unable to access directory %s", dir)
		}
		if err := os.MkdirAll(dir, 0770); err != nil {
			return "", errors.Wrapf(err, "unable to create directory %s", dir)
		}
	}
	return dir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Data == "" {
		p.Data = "downloads"
	}
	if p.Output == "" {
		p.Output = "."
	}
	if p.ValidationSize == 0 {
		p.ValidationSize = 0.2
	}
	if p.ValidationSize < 0 || p.ValidationSize >= 1 {
		return errors.Errorf("validation size must be in [0, 1), got %v", p.ValidationSize)
	}
	if p.EvalPolicy == "" {
		p.EvalPolicy = "two-pass"
	}
	if p.EvalPolicy != "two-pass" && p.EvalPolicy != "single-pass" {
		return errors.Errorf("unknown eval policy %q", p.EvalPolicy)
	}

	dataDir, err := checkDir(p.Data, true)
	if err != nil {
		slog.Error("failed to check data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	outputDir, err := checkDir(p.Output, true)
	if err != nil {
		slog.Error("failed to check output directory", slog.String("output", p.Output), slog.String("error", err.Error()))
		return err
	}
	p.Output = outputDir

	return nil
}
