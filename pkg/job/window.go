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

package job

import "time"

// fetchWindow computes the [start, end) time range for a (period, delay,
// length) bucket relative to now. now is floored to the nearest period
// boundary before delay and length are subtracted, so repeated calls within
// the same period return the same window.
func fetchWindow(now time.Time, period, delay, length int64) (start, end time.Time) {
	epoch := now.Unix()
	if period > 0 {
		epoch = (epoch / period) * period
	}
	end = time.Unix(epoch-delay, 0).UTC()
	start = time.Unix(epoch-delay-length, 0).UTC()
	return start, end
}
