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
	"context"
	"fmt"
	"math"
	"time"

	"github.com/eigenein/tankopoisk/base/log"
	"github.com/eigenein/tankopoisk/base/progress"
	"github.com/eigenein/tankopoisk/dataset"
	"github.com/eigenein/tankopoisk/model"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Result summarizes a call to Fit.
type Result struct {
	Iterations  int
	Stalls      int
	InitialCost float64
	Cost        float64
	Alpha       float64
	Interrupted bool
	Elapsed     time.Duration
}

// GradientDescent factorizes the mean-centered rating matrix Y ≈ XΘᵀ by
// full-batch gradient descent on the regularized squared error over observed
// ratings. The learning rate is kept after an improving iteration and decayed
// after an iteration that did not decrease the cost.
//
// Hyper-parameters:
//
//	Reg           - The regularization strength λ. Default is 1.0.
//	Lr            - The initial learning rate α. Default is 0.001.
//	LrGrowth      - The learning rate multiplier after an improving iteration. Default is 1.0.
//	LrDecay       - The learning rate multiplier after a non-improving iteration. Default is 0.5.
//	RevertOnStall - Discard parameters of a non-improving iteration. Default is false.
//	NFactors      - The number of latent features k. Default is 16.
//	NEpochs       - The number of iterations. Default is 1000000.
//	Verbose       - The period of progress checkpoints in iterations. Default is 1000.
//	RandomState   - The seed of the initial uniform random factors. Default is 0.
type GradientDescent struct {
	model.BaseModel
	ItemIndex  *dataset.Index
	AccountIds []int64
	// Model parameters
	ItemMean      *mat.VecDense // per-item mean of observed ratings
	ItemFactor    *mat.Dense    // X
	AccountFactor *mat.Dense    // Θ
	// Hyper parameters
	nFactors      int
	nEpochs       int
	verbose       int
	lr            float64
	lrGrowth      float64
	lrDecay       float64
	reg           float64
	revertOnStall bool
}

var _ model.Model = (*GradientDescent)(nil)

// NewGradientDescent creates a gradient descent trainer.
func NewGradientDescent(params model.Params) *GradientDescent {
	gd := new(GradientDescent)
	gd.SetParams(params)
	return gd
}

// SetParams sets hyper-parameters of the trainer.
func (gd *GradientDescent) SetParams(params model.Params) {
	gd.BaseModel.SetParams(params)
	gd.nFactors = gd.Params.GetInt(model.NFactors, 16)
	gd.nEpochs = gd.Params.GetInt(model.NEpochs, 1000000)
	gd.verbose = gd.Params.GetInt(model.Verbose, 1000)
	gd.lr = gd.Params.GetFloat64(model.Lr, 0.001)
	gd.lrGrowth = gd.Params.GetFloat64(model.LrGrowth, 1)
	gd.lrDecay = gd.Params.GetFloat64(model.LrDecay, 0.5)
	gd.reg = gd.Params.GetFloat64(model.Reg, 1)
	gd.revertOnStall = gd.Params.GetBool(model.RevertOnStall, false)
}

// Schedule returns the learning rate schedule configured by hyper-parameters.
func (gd *GradientDescent) Schedule() Schedule {
	return Schedule{Growth: gd.lrGrowth, Decay: gd.lrDecay}
}

func (gd *GradientDescent) validate() error {
	if gd.nFactors <= 0 {
		return errors.NotValidf("number of factors %d", gd.nFactors)
	}
	if gd.nEpochs < 0 {
		return errors.NotValidf("number of iterations %d", gd.nEpochs)
	}
	if gd.verbose <= 0 {
		return errors.NotValidf("checkpoint period %d", gd.verbose)
	}
	if !(gd.reg >= 0) {
		return errors.NotValidf("regularization %v", gd.reg)
	}
	if !(gd.lr > 0) || math.IsInf(gd.lr, 0) {
		return errors.NotValidf("learning rate %v", gd.lr)
	}
	if !(gd.lrGrowth > 0) || math.IsInf(gd.lrGrowth, 0) {
		return errors.NotValidf("learning rate growth %v", gd.lrGrowth)
	}
	if !(gd.lrDecay > 0 && gd.lrDecay < 1) {
		return errors.NotValidf("learning rate decay %v", gd.lrDecay)
	}
	return nil
}

func (ratings *Ratings) validate() error {
	if ratings == nil || ratings.Y == nil || ratings.R == nil || ratings.ItemIndex == nil {
		return errors.New("incomplete ratings")
	}
	yr, yc := ratings.Y.Dims()
	rr, rc := ratings.R.Dims()
	if yr != rr || yc != rc {
		return errors.Errorf("shape of Y (%d, %d) and R (%d, %d) differ", yr, yc, rr, rc)
	}
	if yr != ratings.CountItems() || yc != ratings.CountAccounts() {
		return errors.Errorf("shape of Y (%d, %d) does not match %d items and %d accounts",
			yr, yc, ratings.CountItems(), ratings.CountAccounts())
	}
	return nil
}

// Init draws initial factors uniformly from [0, 1).
func (gd *GradientDescent) Init(ratings *Ratings) {
	rng := gd.GetRandomGenerator()
	gd.ItemIndex = ratings.ItemIndex
	gd.AccountIds = ratings.AccountIds
	gd.ItemFactor = rng.UniformDense(ratings.CountItems(), gd.nFactors, 0, 1)
	gd.AccountFactor = rng.UniformDense(ratings.CountAccounts(), gd.nFactors, 0, 1)
}

// Fit trains factors on ratings. Cancelling ctx stops training after the
// current iteration; the partial result is returned without error.
func (gd *GradientDescent) Fit(ctx context.Context, ratings *Ratings) (Result, error) {
	if err := gd.validate(); err != nil {
		return Result{}, errors.Trace(err)
	}
	if err := ratings.validate(); err != nil {
		return Result{}, errors.Trace(err)
	}
	log.Logger().Info("fit gradient descent",
		zap.Int("n_items", ratings.CountItems()),
		zap.Int("n_accounts", ratings.CountAccounts()),
		zap.Int("n_observed", ratings.CountObserved()),
		zap.String("params", gd.GetParams().ToString()))
	start := time.Now()
	y, mean := Normalize(ratings.Y, ratings.R)
	gd.ItemMean = mean
	gd.Init(ratings)

	x, theta := gd.ItemFactor, gd.AccountFactor
	schedule := gd.Schedule()
	state := NewState(gd.lr)
	result := Result{InitialCost: Cost(x, theta, y, ratings.R, gd.reg)}
	log.Logger().Debug("initial cost", zap.Float64("cost", result.InitialCost))

	_, span := progress.Start(ctx, "GradientDescent.Fit", gd.nEpochs)
	for i := 0; i < gd.nEpochs; i++ {
		if ctx.Err() != nil {
			result.Interrupted = true
			log.Logger().Info("fit gradient descent interrupted", zap.Int("iteration", i))
			break
		}
		newX, newTheta := Step(x, theta, y, ratings.R, gd.reg, state.Alpha)
		cost := Cost(newX, newTheta, y, ratings.R, gd.reg)
		if i%gd.verbose == 0 {
			log.Logger().Info(fmt.Sprintf("fit gradient descent %v/%v", i, gd.nEpochs),
				zap.Float64("previous_cost", state.Cost),
				zap.Float64("cost", cost),
				zap.Float64("alpha", state.Alpha))
		}
		next := schedule.Advance(state, cost)
		if next.Phase == Stalled {
			result.Stalls++
			TrainStallsTotal.Inc()
			log.Logger().Warn("cost did not decrease",
				zap.Int("iteration", i),
				zap.Float64("alpha", next.Alpha),
				zap.Float64("cost", cost))
			if gd.revertOnStall {
				newX, newTheta = x, theta
				next.Cost = state.Cost
			}
		}
		x, theta, state = newX, newTheta, next
		result.Iterations++
		TrainIterationsTotal.Inc()
		TrainCost.Set(state.Cost)
		TrainLearningRate.Set(state.Alpha)
		span.Add(1)
	}
	span.End()

	gd.ItemFactor, gd.AccountFactor = x, theta
	result.Cost = Cost(x, theta, y, ratings.R, gd.reg)
	result.Alpha = state.Alpha
	result.Elapsed = time.Since(start)
	log.Logger().Info("fit gradient descent complete",
		zap.Int("iterations", result.Iterations),
		zap.Int("stalls", result.Stalls),
		zap.Float64("initial_cost", result.InitialCost),
		zap.Float64("cost", result.Cost),
		zap.Float64("alpha", result.Alpha),
		zap.Bool("interrupted", result.Interrupted),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// Clear drops trained parameters.
func (gd *GradientDescent) Clear() {
	gd.ItemIndex = nil
	gd.AccountIds = nil
	gd.ItemMean = nil
	gd.ItemFactor = nil
	gd.AccountFactor = nil
}
