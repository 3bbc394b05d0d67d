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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/eigenein/tankopoisk/base/log"
	"github.com/eigenein/tankopoisk/base/progress"
	"github.com/eigenein/tankopoisk/cmd/version"
	"github.com/eigenein/tankopoisk/config"
	"github.com/eigenein/tankopoisk/model/mf"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trainerCommand = &cobra.Command{
	Use:   "tankopoisk-trainer <stats.csv.gz>...",
	Short: "Train latent factors of tanks from account statistics.",
	Args: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath, cmd.PersistentFlags())
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}

		// serve metrics
		if port, _ := cmd.PersistentFlags().GetInt("metrics-port"); port > 0 {
			go serveMetrics(port)
		}

		// the first interrupt cancels ctx, later ones terminate the process
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		context.AfterFunc(ctx, stop)
		tracer := progress.NewTracer("tankopoisk-trainer")
		ctx, span := tracer.Start(ctx, "train", 2)

		// load ratings
		ratings, err := loadRatings(ctx, args, conf.Dataset.NumAccounts)
		if errors.Cause(err) == context.Canceled {
			span.End()
			log.Logger().Info("loading interrupted", zap.Strings("files", args))
			return
		} else if err != nil {
			span.Fail(err)
			log.Logger().Fatal("failed to load ratings", zap.Strings("files", args), zap.Error(err))
		}
		span.Add(1)

		// fit factors
		gd := mf.NewGradientDescent(conf.Training.GetParams())
		result, err := gd.Fit(ctx, ratings)
		if err != nil {
			span.Fail(err)
			log.Logger().Fatal("failed to fit factors", zap.Error(err))
		}
		span.Add(1)
		span.End()

		if err = printSummary(os.Stdout, ratings, result, tracer.List()); err != nil {
			log.Logger().Fatal("failed to print summary", zap.Error(err))
		}
		if result.Interrupted {
			log.Logger().Info("training interrupted", zap.Int("iterations", result.Iterations))
		}
	},
}

func init() {
	log.AddFlags(trainerCommand.PersistentFlags())
	config.AddFlags(trainerCommand.PersistentFlags())
	trainerCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	trainerCommand.PersistentFlags().BoolP("version", "v", false, "tankopoisk version")
	trainerCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	trainerCommand.PersistentFlags().Int("metrics-port", 0, "port of prometheus metrics (disabled if 0)")
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	log.Logger().Info("start metrics server", zap.String("address", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Logger().Error("failed to serve metrics", zap.Error(err))
	}
}

func main() {
	if err := trainerCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
