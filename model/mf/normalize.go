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

package mf

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Normalize centers every item row of y on the mean of its observed ratings:
//
//	mean_i = Σ_j y_ij / Σ_j r_ij
//	y'_ij  = (y_ij - mean_i) r_ij
//
// Items without observations get a zero mean. y and r are not modified.
func Normalize(y, r *mat.Dense) (*mat.Dense, *mat.VecDense) {
	numItems, numAccounts := y.Dims()
	if rr, rc := r.Dims(); rr != numItems || rc != numAccounts {
		panic(mat.ErrShape)
	}
	mean := mat.NewVecDense(numItems, nil)
	normalized := mat.NewDense(numItems, numAccounts, nil)
	for i := 0; i < numItems; i++ {
		m := floats.Sum(y.RawRowView(i)) / floats.Sum(r.RawRowView(i))
		if math.IsNaN(m) || math.IsInf(m, 0) {
			m = 0
		}
		mean.SetVec(i, m)
		row, mask := normalized.RawRowView(i), r.RawRowView(i)
		copy(row, y.RawRowView(i))
		floats.AddConst(-m, row)
		floats.Mul(row, mask)
	}
	return normalized, mean
}
