package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const (
	// RequiredTagsFile is the classic one-tag-per-line source,
	// checked when the settings file does not list required tags.
	RequiredTagsFile = "required_tags.txt"
)

type Settings struct {
	MaxWorkers   int      `mapstructure:"max_workers"`
	OutputDir    string   `mapstructure:"output_dir"`
	SampleSize   int      `mapstructure:"sample_size"`
	RequiredTags []string `mapstructure:"required_tags"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxWorkers: 15,
		OutputDir:  "output",
		SampleSize: 5,
	}
}

// LoadSettings reads the optional settings file. A missing file is not
// an error: the scan must run with defaults on a bare machine.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("max_workers", settings.MaxWorkers)
	v.SetDefault("output_dir", settings.OutputDir)
	v.SetDefault("sample_size", settings.SampleSize)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := v.Unmarshal(&settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return settings, nil
}

// DefaultRequiredTags is the fallback when no configuration source
// provides a tag list.
func DefaultRequiredTags() domain.RequiredTags {
	return domain.RequiredTags{"Environment", "Owner", "Project"}
}

// LoadRequiredTags resolves the required tag list: the settings file
// wins, then the one-tag-per-line file, then the built-in default. The
// result is always non-empty and duplicate-free, preserving source
// order.
func LoadRequiredTags(settings Settings, tagsFile string) domain.RequiredTags {
	if len(settings.RequiredTags) > 0 {
		return dedupe(settings.RequiredTags)
	}

	if tagsFile == "" {
		tagsFile = RequiredTagsFile
	}
	if fromFile := readTagLines(tagsFile); len(fromFile) > 0 {
		return dedupe(fromFile)
	}
	return DefaultRequiredTags()
}

func readTagLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func dedupe(tags []string) domain.RequiredTags {
	seen := make(map[string]struct{}, len(tags))
	var result domain.RequiredTags
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
