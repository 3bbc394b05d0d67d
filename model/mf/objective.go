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
	"gonum.org/v1/gonum/mat"
)

// residual returns (XΘᵀ - Y) ⊙ R, the prediction error on observed ratings.
func residual(x, theta, y, r mat.Matrix) *mat.Dense {
	var diff mat.Dense
	diff.Mul(x, theta.T())
	diff.Sub(&diff, y)
	diff.MulElem(&diff, r)
	return &diff
}

func sumOfSquares(m mat.Matrix) float64 {
	var sq mat.Dense
	sq.MulElem(m, m)
	return mat.Sum(&sq)
}

// Cost evaluates the regularized squared error:
//
//	J = ½ Σ r_ij (x_i·θ_j - y_ij)² + ½ λ Σ θ² + ½ λ Σ x²
func Cost(x, theta, y, r *mat.Dense, lambda float64) float64 {
	diff := residual(x, theta, y, r)
	return sumOfSquares(diff)/2 + lambda*sumOfSquares(theta)/2 + lambda*sumOfSquares(x)/2
}

// Gradients returns the partial derivatives of Cost with respect to x and theta:
//
//	∂J/∂X = ((XΘᵀ - Y) ⊙ R) Θ + λX
//	∂J/∂Θ = ((XΘᵀ - Y) ⊙ R)ᵀ X + λΘ
func Gradients(x, theta, y, r *mat.Dense, lambda float64) (xGrad, thetaGrad *mat.Dense) {
	diff := residual(x, theta, y, r)
	xGrad, thetaGrad = new(mat.Dense), new(mat.Dense)
	var reg mat.Dense
	xGrad.Mul(diff, theta)
	reg.Scale(lambda, x)
	xGrad.Add(xGrad, &reg)
	reg.Reset()
	thetaGrad.Mul(diff.T(), x)
	reg.Scale(lambda, theta)
	thetaGrad.Add(thetaGrad, &reg)
	return
}

// Step takes one full-batch gradient descent step with learning rate alpha.
// The inputs are left untouched; the updated factors are returned.
func Step(x, theta, y, r *mat.Dense, lambda, alpha float64) (*mat.Dense, *mat.Dense) {
	xGrad, thetaGrad := Gradients(x, theta, y, r, lambda)
	var newX, newTheta mat.Dense
	newX.Scale(-alpha, xGrad)
	newX.Add(x, &newX)
	newTheta.Scale(-alpha, thetaGrad)
	newTheta.Add(theta, &newTheta)
	return &newX, &newTheta
}
