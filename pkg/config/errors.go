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

package config

import "log/slog"

// Error reports a malformed or unresolvable scrape configuration: an
// unknown service alias, an unparseable regex, or a missing required field.
// It is fatal before any I/O starts.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) LogValue() slog.Value {
	return slog.StringValue(e.Msg)
}
