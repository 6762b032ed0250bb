// Copyright 2024 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config decodes and validates the scraper's two configuration
// surfaces: the JSON SCRAPE_CONFIG payload (discovery/static job
// definitions) and the on-disk YAML CLIConfig (queue, logging and
// concurrency knobs for the process entry points).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/grafana/regexp"
	"gopkg.in/yaml.v2"

	"github.com/metricscrape/cwscraper/pkg/catalogue"
	"github.com/metricscrape/cwscraper/pkg/model"
)

const (
	defaultPeriod                 = int64(60)
	defaultLength                 = int64(60)
	defaultDelay                  = int64(0)
	defaultAddCloudwatchTimestamp = true
	defaultMergeDimensions        = true
)

// MetricConfig is one requested metric within a discovery or static job, as
// carried in the JSON scrape configuration.
type MetricConfig struct {
	Name                   string            `json:"name"`
	Stats                  []string          `json:"stats"`
	Period                 *int64            `json:"period,omitempty"`
	Length                 *int64            `json:"length,omitempty"`
	Delay                  *int64            `json:"delay,omitempty"`
	NilToZero              bool              `json:"nil_to_zero,omitempty"`
	AddCloudwatchTimestamp *bool             `json:"add_cw_timestamp,omitempty"`
	Unit                   string            `json:"unit,omitempty"`
	SearchDimensions       map[string]string `json:"search_dimensions,omitempty"`
	MergeDimensions        *bool             `json:"merge_dimensions,omitempty"`
	DimensionsExact        *bool             `json:"dimensions_exact,omitempty"`
}

// DiscoveryJobConfig is one entry in discovery.jobs.
type DiscoveryJobConfig struct {
	Type               string            `json:"type"`
	Regions            []string          `json:"regions,omitempty"`
	Roles              []string          `json:"roles,omitempty"`
	CustomTags         map[string]string `json:"custom_tags,omitempty"`
	SearchTags         map[string]string `json:"search_tags,omitempty"`
	SearchDimensions   map[string]string `json:"search_dimensions,omitempty"`
	DimensionsExact    bool              `json:"dimensions_exact,omitempty"`
	RecentlyActiveOnly bool              `json:"recently_active_only,omitempty"`
	LinkedAccounts     bool              `json:"linked_accounts,omitempty"`
	Metrics            []*MetricConfig   `json:"metrics"`
}

// StaticJobConfig is one entry in static.jobs: a fixed resource identified
// by its dimension map rather than discovered.
type StaticJobConfig struct {
	Type       string            `json:"type"`
	Regions    []string          `json:"regions,omitempty"`
	Roles      []string          `json:"roles,omitempty"`
	CustomTags map[string]string `json:"custom_tags,omitempty"`
	Dimensions map[string]string `json:"dimensions"`
	Metrics    []*MetricConfig   `json:"metrics"`
}

// BotoConfig carries the optional per-call connect/read timeout overrides.
type BotoConfig struct {
	ConnectTimeout *float64 `json:"connect_timeout,omitempty"`
	ReadTimeout    *float64 `json:"read_timeout,omitempty"`
}

// Discovery is the discovery.{exported_tags,jobs} object.
type Discovery struct {
	ExportedTags []string               `json:"exported_tags,omitempty"`
	Jobs         []*DiscoveryJobConfig  `json:"jobs"`
}

// Static is the static.jobs object.
type Static struct {
	Jobs []*StaticJobConfig `json:"jobs"`
}

// ScrapeConfig is the decoded SCRAPE_CONFIG JSON payload: the authoritative
// source of discovery and static job definitions for one scrape pass.
type ScrapeConfig struct {
	DefaultRegion string      `json:"default-region,omitempty"`
	StsRegion     string      `json:"sts-region,omitempty"`
	BotoConfig    *BotoConfig `json:"boto-config,omitempty"`
	Discovery     Discovery   `json:"discovery"`
	Static        Static      `json:"static"`
}

// LoadScrapeConfig decodes raw into a ScrapeConfig and validates it.
func LoadScrapeConfig(raw []byte) (*ScrapeConfig, error) {
	var cfg ScrapeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("malformed scrape config: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate resolves every job's service type against the catalogue and
// compiles every regex the config carries, without building model jobs.
func (c *ScrapeConfig) Validate() error {
	cat := catalogue.Default()

	for i, j := range c.Discovery.Jobs {
		if j.Type == "" {
			return &Error{Msg: fmt.Sprintf("discovery job [%d]: type must not be empty", i)}
		}
		if _, err := cat.Lookup(j.Type); err != nil {
			return &Error{Msg: fmt.Sprintf("discovery job [%d]: %v", i, err)}
		}
		if _, err := compileRegexps(j.SearchTags); err != nil {
			return &Error{Msg: fmt.Sprintf("discovery job [%d]: search_tags: %v", i, err)}
		}
		if _, err := compileRegexps(j.SearchDimensions); err != nil {
			return &Error{Msg: fmt.Sprintf("discovery job [%d]: search_dimensions: %v", i, err)}
		}
		for mi, m := range j.Metrics {
			if err := m.validate(); err != nil {
				return &Error{Msg: fmt.Sprintf("discovery job [%d]: metric [%d]: %v", i, mi, err)}
			}
		}
	}

	for i, j := range c.Static.Jobs {
		if j.Type == "" {
			return &Error{Msg: fmt.Sprintf("static job [%d]: type must not be empty", i)}
		}
		if len(j.Dimensions) == 0 {
			return &Error{Msg: fmt.Sprintf("static job [%d]: dimensions must not be empty", i)}
		}
		if _, err := cat.Lookup(j.Type); err != nil {
			return &Error{Msg: fmt.Sprintf("static job [%d]: %v", i, err)}
		}
		for mi, m := range j.Metrics {
			if err := m.validate(); err != nil {
				return &Error{Msg: fmt.Sprintf("static job [%d]: metric [%d]: %v", i, mi, err)}
			}
		}
	}

	return nil
}

func (m *MetricConfig) validate() error {
	if m.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(m.Stats) == 0 {
		return fmt.Errorf("stats must not be empty")
	}
	if _, err := compileRegexps(m.SearchDimensions); err != nil {
		return fmt.Errorf("search_dimensions: %w", err)
	}
	return nil
}

func compileRegexps(in map[string]string) (map[string]*regexp.Regexp, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]*regexp.Regexp, len(in))
	for k, pattern := range in {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
		out[k] = re
	}
	return out, nil
}

// ToJobs resolves every configured job against the catalogue and converts it
// into the model types the scrape pipeline consumes. Validate should be
// called (or LoadScrapeConfig used) before this, but ToJobs re-resolves
// everything itself so it never returns a half-built job.
func (c *ScrapeConfig) ToJobs() ([]*model.DiscoveryJob, []*model.StaticJob, error) {
	cat := catalogue.Default()

	discoveryJobs := make([]*model.DiscoveryJob, 0, len(c.Discovery.Jobs))
	for i, j := range c.Discovery.Jobs {
		svc, err := cat.Lookup(j.Type)
		if err != nil {
			return nil, nil, &Error{Msg: fmt.Sprintf("discovery job [%d]: %v", i, err)}
		}

		searchTags, err := compileRegexps(j.SearchTags)
		if err != nil {
			return nil, nil, &Error{Msg: fmt.Sprintf("discovery job [%d]: search_tags: %v", i, err)}
		}
		searchDimensions, err := compileRegexps(j.SearchDimensions)
		if err != nil {
			return nil, nil, &Error{Msg: fmt.Sprintf("discovery job [%d]: search_dimensions: %v", i, err)}
		}

		metrics, err := toMetricRequests(j.Metrics)
		if err != nil {
			return nil, nil, &Error{Msg: fmt.Sprintf("discovery job [%d]: %v", i, err)}
		}

		discoveryJobs = append(discoveryJobs, &model.DiscoveryJob{
			Namespace:           svc.Namespace,
			Metrics:             metrics,
			Regions:             j.Regions,
			Roles:               j.Roles,
			CustomTags:          j.CustomTags,
			SearchTags:          searchTags,
			SearchDimensions:    searchDimensions,
			DimensionsExact:     j.DimensionsExact,
			RecentlyActiveOnly:  j.RecentlyActiveOnly,
			LinkedAccounts:      j.LinkedAccounts,
			DimensionsRegexps:   svc.DimensionsRegexps,
			ResourceTypeFilters: svc.ResourceTypeFilters,
			ExportedTags:        c.Discovery.ExportedTags,
		})
	}

	staticJobs := make([]*model.StaticJob, 0, len(c.Static.Jobs))
	for i, j := range c.Static.Jobs {
		svc, err := cat.Lookup(j.Type)
		if err != nil {
			return nil, nil, &Error{Msg: fmt.Sprintf("static job [%d]: %v", i, err)}
		}
		metrics, err := toMetricRequests(j.Metrics)
		if err != nil {
			return nil, nil, &Error{Msg: fmt.Sprintf("static job [%d]: %v", i, err)}
		}
		staticJobs = append(staticJobs, &model.StaticJob{
			Namespace:  svc.Namespace,
			Metrics:    metrics,
			Regions:    j.Regions,
			Roles:      j.Roles,
			CustomTags: j.CustomTags,
			Dimensions: j.Dimensions,
		})
	}

	return discoveryJobs, staticJobs, nil
}

func toMetricRequests(in []*MetricConfig) ([]*model.MetricRequest, error) {
	out := make([]*model.MetricRequest, 0, len(in))
	for _, m := range in {
		searchDimensions, err := compileRegexps(m.SearchDimensions)
		if err != nil {
			return nil, fmt.Errorf("metric %q: search_dimensions: %w", m.Name, err)
		}

		period := defaultPeriod
		if m.Period != nil {
			period = *m.Period
		}
		length := defaultLength
		if m.Length != nil {
			length = *m.Length
		}
		delay := defaultDelay
		if m.Delay != nil {
			delay = *m.Delay
		}
		addCWTimestamp := defaultAddCloudwatchTimestamp
		if m.AddCloudwatchTimestamp != nil {
			addCWTimestamp = *m.AddCloudwatchTimestamp
		}
		mergeDimensions := defaultMergeDimensions
		if m.MergeDimensions != nil {
			mergeDimensions = *m.MergeDimensions
		}

		out = append(out, &model.MetricRequest{
			Name:                   m.Name,
			Statistics:             m.Stats,
			Period:                 period,
			Length:                 length,
			Delay:                  delay,
			NilToZero:              m.NilToZero,
			AddCloudwatchTimestamp: addCWTimestamp,
			Unit:                   m.Unit,
			SearchDimensions:       searchDimensions,
			MergeDimensions:        mergeDimensions,
			DimensionsExact:        m.DimensionsExact,
		})
	}
	return out, nil
}

// JitterConfig is the YAML form of model.JitterConfig: human-readable
// duration strings (e.g. "5s") rather than time.Duration, since yaml.v2 has
// no built-in Duration support.
type JitterConfig struct {
	MinDelay string `yaml:"minDelay,omitempty"`
	MaxDelay string `yaml:"maxDelay,omitempty"`
}

// ToModel parses both bounds, defaulting either side to zero when absent.
func (j *JitterConfig) ToModel() (model.JitterConfig, error) {
	var out model.JitterConfig
	if j == nil {
		return out, nil
	}
	var err error
	if j.MinDelay != "" {
		if out.MinDelay, err = time.ParseDuration(j.MinDelay); err != nil {
			return out, fmt.Errorf("minDelay: %w", err)
		}
	}
	if j.MaxDelay != "" {
		if out.MaxDelay, err = time.ParseDuration(j.MaxDelay); err != nil {
			return out, fmt.Errorf("maxDelay: %w", err)
		}
	}
	return out, nil
}

// CLIConfig is the on-disk YAML configuration read by the CLI entry point:
// queue location, logging, per-API concurrency overrides, and optional
// startup jitter. It is distinct from the JSON ScrapeConfig, which remains
// the source of discovery/static job definitions.
type CLIConfig struct {
	QueueURL    string         `yaml:"queueURL"`
	QueueRegion string         `yaml:"queueRegion,omitempty"`
	QueueRole   string         `yaml:"queueRole,omitempty"`
	LogLevel    string         `yaml:"logLevel,omitempty"`
	LogFormat   string         `yaml:"logFormat,omitempty"`
	Concurrency map[string]int `yaml:"concurrency,omitempty"`
	Jitter      *JitterConfig  `yaml:"jitter,omitempty"`
}

// LoadCLIConfig reads and decodes a CLIConfig from path.
func LoadCLIConfig(path string) (*CLIConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Msg: fmt.Sprintf("reading cli config %q: %v", path, err)}
	}
	var cfg CLIConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("parsing cli config %q: %v", path, err)}
	}
	return &cfg, nil
}
