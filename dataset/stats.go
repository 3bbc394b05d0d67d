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
	"encoding/csv"
	"io"
	"slices"
	"strings"

	"github.com/eigenein/tankopoisk/base/log"
	"github.com/juju/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// AccountRow is a row of a stats file: an account and its rating of every item
// named by the header. Empty ratings are not observed.
type AccountRow struct {
	AccountId string
	Ratings   []string
}

// StatsReader reads account rows from one or more gzip-compressed CSV stats files.
// The first record of every file is the header: a label followed by item ids.
// All files must share the same header; their rows are concatenated.
type StatsReader struct {
	sources []io.Reader
	index   int
	gzip    *gzip.Reader
	csv     *csv.Reader
	header  []string
	items   *Index
	rows    int
}

// NewStatsReader opens the first source and reads its header.
func NewStatsReader(sources ...io.Reader) (*StatsReader, error) {
	if len(sources) == 0 {
		return nil, errors.New("no stats source")
	}
	r := &StatsReader{sources: sources}
	header, err := r.open(0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(header) < 2 {
		_ = r.Close()
		return nil, errors.Errorf("stats header names no items")
	}
	r.header = header
	itemIds := make([]string, len(header)-1)
	for i, itemId := range header[1:] {
		itemIds[i] = strings.TrimSpace(itemId)
	}
	if duplicates := lo.FindDuplicates(itemIds); len(duplicates) > 0 {
		_ = r.Close()
		return nil, errors.Errorf("duplicate item ids in stats header: %v", duplicates)
	}
	r.items = NewIndex(itemIds...)
	log.Logger().Info("read stats header", zap.Int("n_items", r.items.Count()))
	return r, nil
}

func (r *StatsReader) open(index int) ([]string, error) {
	if r.gzip != nil {
		if err := r.gzip.Close(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	reader, err := gzip.NewReader(r.sources[index])
	if err != nil {
		return nil, errors.Annotatef(err, "open stats source #%d", index)
	}
	r.index = index
	r.gzip = reader
	r.csv = csv.NewReader(reader)
	r.csv.FieldsPerRecord = -1
	header, err := r.csv.Read()
	if err == io.EOF {
		return nil, errors.Errorf("stats source #%d has no header", index)
	} else if err != nil {
		return nil, errors.Annotatef(err, "read header of stats source #%d", index)
	}
	return header, nil
}

// ItemIds returns the item index built from the header.
func (r *StatsReader) ItemIds() *Index {
	return r.items
}

// Rows returns the number of account rows returned so far.
func (r *StatsReader) Rows() int {
	return r.rows
}

// Next returns the next account row. It returns io.EOF after the last row of the last source.
func (r *StatsReader) Next() (AccountRow, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			if r.index+1 >= len(r.sources) {
				return AccountRow{}, io.EOF
			}
			header, err := r.open(r.index + 1)
			if err != nil {
				return AccountRow{}, errors.Trace(err)
			}
			if !slices.Equal(header, r.header) {
				return AccountRow{}, errors.Errorf("header mismatch in stats source #%d", r.index)
			}
			log.Logger().Info("validated stats header", zap.Int("source", r.index))
			continue
		} else if err != nil {
			return AccountRow{}, errors.Annotatef(err, "read stats source #%d", r.index)
		}
		r.rows++
		return AccountRow{AccountId: record[0], Ratings: record[1:]}, nil
	}
}

// Close releases the decompressor. Sources are owned by the caller.
func (r *StatsReader) Close() error {
	if r.gzip == nil {
		return nil
	}
	return r.gzip.Close()
}
