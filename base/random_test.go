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

package base

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const randomEpsilon = 0.1

func TestRandomGenerator_UniformVector(t *testing.T) {
	rng := NewRandomGenerator(0)
	vec := rng.UniformVector(1000, 1, 2)
	assert.False(t, floats.Min(vec) < 1)
	assert.False(t, floats.Max(vec) >= 2)
}

func TestRandomGenerator_UniformDense(t *testing.T) {
	rng := NewRandomGenerator(0)
	m := rng.UniformDense(20, 50, 0, 1)
	rows, cols := m.Dims()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 50, cols)
	data := m.RawMatrix().Data
	assert.False(t, floats.Min(data) < 0)
	assert.False(t, floats.Max(data) >= 1)
	assert.False(t, math.Abs(stat.Mean(data, nil)-0.5) > randomEpsilon)
}

func TestRandomGenerator_Seed(t *testing.T) {
	a := NewRandomGenerator(42).UniformDense(3, 4, 0, 1)
	b := NewRandomGenerator(42).UniformDense(3, 4, 0, 1)
	c := NewRandomGenerator(43).UniformDense(3, 4, 0, 1)
	assert.True(t, mat.Equal(a, b))
	assert.False(t, mat.Equal(a, c))
}
