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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 37, 0, time.UTC)

	t.Run("aligns now to the period boundary", func(t *testing.T) {
		start, end := fetchWindow(now, 60, 0, 60)
		assert.Equal(t, int64(0), end.Unix()%60)
		assert.Equal(t, int64(60), end.Unix()-start.Unix())
	})

	t.Run("subtracts delay then length", func(t *testing.T) {
		start, end := fetchWindow(now, 60, 30, 120)
		wantEnd := (now.Unix()/60)*60 - 30
		assert.Equal(t, wantEnd, end.Unix())
		assert.Equal(t, wantEnd-120, start.Unix())
	})

	t.Run("zero period skips alignment", func(t *testing.T) {
		start, end := fetchWindow(now, 0, 0, 300)
		assert.Equal(t, now.Unix(), end.Unix())
		assert.Equal(t, now.Unix()-300, start.Unix())
	})
}
