// Copyright 2026 tankopoisk Project Authors
//
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

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	idx := NewIndex("a", "b")
	assert.Equal(t, 2, idx.Count())
	assert.Equal(t, 1, idx.Add("b"))
	assert.Equal(t, 2, idx.Add("c"))
	assert.Equal(t, 3, idx.Count())
	s, ok := idx.String(2)
	assert.True(t, ok)
	assert.Equal(t, "c", s)
	_, ok = idx.String(3)
	assert.False(t, ok)
	_, ok = idx.String(-1)
	assert.False(t, ok)
}
