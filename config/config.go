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

package config

import (
	"github.com/eigenein/tankopoisk/model"
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the configuration of the trainer.
type Config struct {
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Training TrainingConfig `mapstructure:"training"`
}

// DatasetConfig is the configuration of rating assembly.
type DatasetConfig struct {
	NumAccounts int `mapstructure:"num_accounts" validate:"gt=0"`
}

// TrainingConfig is the configuration of gradient descent.
type TrainingConfig struct {
	Lambda        float64 `mapstructure:"lambda" validate:"gte=0"`
	NumFeatures   int     `mapstructure:"num_features" validate:"gt=0"`
	NumIterations int     `mapstructure:"num_iterations" validate:"gte=0"`
	LearningRate  float64 `mapstructure:"learning_rate" validate:"gt=0"`
	LrGrowth      float64 `mapstructure:"lr_growth" validate:"gt=0"`
	LrDecay       float64 `mapstructure:"lr_decay" validate:"gt=0,lt=1"`
	RevertOnStall bool    `mapstructure:"revert_on_stall"`
	LogInterval   int     `mapstructure:"log_interval" validate:"gt=0"`
	RandomState   int64   `mapstructure:"random_state"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			NumAccounts: 500000,
		},
		Training: TrainingConfig{
			Lambda:        1,
			NumFeatures:   16,
			NumIterations: 1000000,
			LearningRate:  0.001,
			LrGrowth:      1,
			LrDecay:       0.5,
			LogInterval:   1000,
		},
	}
}

// GetParams converts the training configuration to hyper-parameters.
func (config *TrainingConfig) GetParams() model.Params {
	return model.Params{
		model.Reg:           config.Lambda,
		model.NFactors:      config.NumFeatures,
		model.NEpochs:       config.NumIterations,
		model.Lr:            config.LearningRate,
		model.LrGrowth:      config.LrGrowth,
		model.LrDecay:       config.LrDecay,
		model.RevertOnStall: config.RevertOnStall,
		model.Verbose:       config.LogInterval,
		model.RandomState:   config.RandomState,
	}
}

const (
	keyNumAccounts   = "dataset.num_accounts"
	keyLambda        = "training.lambda"
	keyNumFeatures   = "training.num_features"
	keyNumIterations = "training.num_iterations"
	keyLearningRate  = "training.learning_rate"
	keyLrGrowth      = "training.lr_growth"
	keyLrDecay       = "training.lr_decay"
	keyRevertOnStall = "training.revert_on_stall"
	keyLogInterval   = "training.log_interval"
	keyRandomState   = "training.random_state"
)

var bindings = []struct {
	key  string
	env  string
	flag string
}{
	{keyNumAccounts, "TANKOPOISK_NUM_ACCOUNTS", "num-accounts"},
	{keyLambda, "TANKOPOISK_LAMBDA", "lambda"},
	{keyNumFeatures, "TANKOPOISK_NUM_FEATURES", "num-features"},
	{keyNumIterations, "TANKOPOISK_NUM_ITERATIONS", "num-iterations"},
	{keyLearningRate, "TANKOPOISK_LEARNING_RATE", "learning-rate"},
	{keyLrGrowth, "", "lr-growth"},
	{keyLrDecay, "", "lr-decay"},
	{keyRevertOnStall, "", "revert-on-stall"},
	{keyLogInterval, "TANKOPOISK_LOG_INTERVAL", "log-interval"},
	{keyRandomState, "TANKOPOISK_RANDOM_STATE", "random-state"},
}

// AddFlags registers command-line flags overriding the configuration.
func AddFlags(flagSet *pflag.FlagSet) {
	defaults := GetDefaultConfig()
	flagSet.Int("num-accounts", defaults.Dataset.NumAccounts, "maximum number of accounts to read")
	flagSet.Float64("lambda", defaults.Training.Lambda, "regularization strength")
	flagSet.Int("num-features", defaults.Training.NumFeatures, "number of latent features")
	flagSet.Int("num-iterations", defaults.Training.NumIterations, "number of gradient descent iterations")
	flagSet.Float64("learning-rate", defaults.Training.LearningRate, "initial learning rate")
	flagSet.Float64("lr-growth", defaults.Training.LrGrowth, "learning rate multiplier after an improving iteration")
	flagSet.Float64("lr-decay", defaults.Training.LrDecay, "learning rate multiplier after a non-improving iteration")
	flagSet.Bool("revert-on-stall", defaults.Training.RevertOnStall, "discard parameters of non-improving iterations")
	flagSet.Int("log-interval", defaults.Training.LogInterval, "number of iterations between checkpoints")
	flagSet.Int64("random-state", defaults.Training.RandomState, "seed of initial factors")
}

func setDefault(v *viper.Viper) {
	defaults := GetDefaultConfig()
	v.SetDefault(keyNumAccounts, defaults.Dataset.NumAccounts)
	v.SetDefault(keyLambda, defaults.Training.Lambda)
	v.SetDefault(keyNumFeatures, defaults.Training.NumFeatures)
	v.SetDefault(keyNumIterations, defaults.Training.NumIterations)
	v.SetDefault(keyLearningRate, defaults.Training.LearningRate)
	v.SetDefault(keyLrGrowth, defaults.Training.LrGrowth)
	v.SetDefault(keyLrDecay, defaults.Training.LrDecay)
	v.SetDefault(keyRevertOnStall, defaults.Training.RevertOnStall)
	v.SetDefault(keyLogInterval, defaults.Training.LogInterval)
	v.SetDefault(keyRandomState, defaults.Training.RandomState)
}

// LoadConfig loads the configuration. Command-line flags set in flagSet take
// precedence over environment variables, which take precedence over the file
// at path. An empty path skips the file. flagSet may be nil.
func LoadConfig(path string, flagSet *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefault(v)
	for _, binding := range bindings {
		if binding.env != "" {
			if err := v.BindEnv(binding.key, binding.env); err != nil {
				return nil, errors.Trace(err)
			}
		}
		if flagSet != nil {
			if flag := flagSet.Lookup(binding.flag); flag != nil && flag.Changed {
				if err := v.BindPFlag(binding.key, flag); err != nil {
					return nil, errors.Trace(err)
				}
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks constraints of the configuration.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid configuration")
	}
	return nil
}
