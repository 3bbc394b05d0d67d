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

// Index maps identifiers to dense indices in order of insertion.
type Index struct {
	indices map[string]int
	names   []string
}

func NewIndex(names ...string) *Index {
	idx := &Index{indices: make(map[string]int, len(names))}
	for _, name := range names {
		idx.Add(name)
	}
	return idx
}

func (idx *Index) Count() int {
	return len(idx.names)
}

// Add returns the index of name, inserting it if absent.
func (idx *Index) Add(name string) int {
	if i, ok := idx.indices[name]; ok {
		return i
	}
	i := len(idx.names)
	idx.indices[name] = i
	idx.names = append(idx.names, name)
	return i
}

func (idx *Index) String(i int) (string, bool) {
	if i < 0 || i >= len(idx.names) {
		return "", false
	}
	return idx.names[i], true
}
