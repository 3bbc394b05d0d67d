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
	"io"
	"os"

	"github.com/eigenein/tankopoisk/base/log"
	"github.com/eigenein/tankopoisk/dataset"
	"github.com/eigenein/tankopoisk/model/mf"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// loadRatings reads at most numAccounts account rows from the concatenation of stats files.
func loadRatings(ctx context.Context, paths []string, numAccounts int) (*mf.Ratings, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			closeAll(readers)
			return nil, errors.Trace(err)
		}
		stat, err := file.Stat()
		if err != nil {
			_ = file.Close()
			closeAll(readers)
			return nil, errors.Trace(err)
		}
		pbReader := progressbar.NewReader(file, progressbar.DefaultBytes(stat.Size(), "reading "+path))
		readers = append(readers, &pbReader)
	}
	defer closeAll(readers)

	stats, err := dataset.NewStatsReader(readers...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer stats.Close()
	ratings, err := mf.Assemble(ctx, stats, numAccounts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("load ratings",
		zap.Int("n_files", len(paths)),
		zap.Int("n_rows", stats.Rows()))
	return ratings, nil
}

func closeAll(readers []io.Reader) {
	for _, reader := range readers {
		if closer, ok := reader.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Logger().Warn("failed to close stats file", zap.Error(err))
			}
		}
	}
}
