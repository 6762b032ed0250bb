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

// Package catalogue holds the static table mapping a service alias or
// CloudWatch namespace to its resource-type filters and ARN-extracting
// regexes. The table is data, ported from the reference scraper's own
// service catalogue; this package only owns lookup and regex compilation.
package catalogue

import (
	"fmt"
	"sync"

	"github.com/grafana/regexp"

	"github.com/metricscrape/cwscraper/pkg/model"
)

// UnknownServiceError is returned by Lookup when the given alias or
// namespace has no catalogue entry.
type UnknownServiceError struct {
	Key string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service: %q", e.Key)
}

type rawEntry struct {
	alias               string
	namespace           string
	resourceTypeFilters []string
	arnPatterns         []string
}

// Catalogue is the process-wide, immutable service table. It is safe for
// concurrent read access once constructed.
type Catalogue struct {
	byKey map[string]*model.Service
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalogue
)

// Default returns the process-wide catalogue, compiling it on first use.
func Default() *Catalogue {
	defaultOnce.Do(func() {
		defaultCat = New(servicesConf)
	})
	return defaultCat
}

// New compiles a Catalogue from a list of raw entries. It exists primarily so
// tests can build a small catalogue without touching the full production
// table.
func New(entries []rawEntry) *Catalogue {
	c := &Catalogue{byKey: make(map[string]*model.Service, len(entries)*2)}
	for _, e := range entries {
		svc := &model.Service{
			Alias:               e.alias,
			Namespace:           e.namespace,
			ResourceTypeFilters: e.resourceTypeFilters,
			DimensionsRegexps:   make([]model.DimensionsRegexp, 0, len(e.arnPatterns)),
		}
		for _, pattern := range e.arnPatterns {
			re := regexp.MustCompile(pattern)
			names := re.SubexpNames()
			dimNames := make([]string, 0, len(names))
			for _, n := range names {
				if n != "" {
					dimNames = append(dimNames, n)
				}
			}
			svc.DimensionsRegexps = append(svc.DimensionsRegexps, model.DimensionsRegexp{
				Regexp:          re,
				DimensionsNames: dimNames,
			})
		}
		c.byKey[svc.Alias] = svc
		c.byKey[svc.Namespace] = svc
	}
	return c
}

// Lookup resolves an alias or namespace to its Service entry.
func (c *Catalogue) Lookup(aliasOrNamespace string) (*model.Service, error) {
	svc, ok := c.byKey[aliasOrNamespace]
	if !ok {
		return nil, &UnknownServiceError{Key: aliasOrNamespace}
	}
	return svc, nil
}
