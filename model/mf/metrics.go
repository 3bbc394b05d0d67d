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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrainCost = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tankopoisk",
		Subsystem: "trainer",
		Name:      "cost",
		Help:      "Regularized cost of the current parameters.",
	})
	TrainLearningRate = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tankopoisk",
		Subsystem: "trainer",
		Name:      "learning_rate",
		Help:      "Current learning rate.",
	})
	TrainIterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tankopoisk",
		Subsystem: "trainer",
		Name:      "iterations_total",
		Help:      "Number of gradient descent iterations.",
	})
	TrainStallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tankopoisk",
		Subsystem: "trainer",
		Name:      "stalls_total",
		Help:      "Number of iterations that did not decrease the cost.",
	})
)
