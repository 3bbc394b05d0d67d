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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/eigenein/tankopoisk/dataset"
	"github.com/juju/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type sliceSource struct {
	items *dataset.Index
	rows  []dataset.AccountRow
	calls int
}

func newSliceSource(items []string, rows ...dataset.AccountRow) *sliceSource {
	return &sliceSource{items: dataset.NewIndex(items...), rows: rows}
}

func (s *sliceSource) ItemIds() *dataset.Index {
	return s.items
}

func (s *sliceSource) Next() (dataset.AccountRow, error) {
	s.calls++
	if len(s.rows) == 0 {
		return dataset.AccountRow{}, io.EOF
	}
	row := s.rows[0]
	s.rows = s.rows[1:]
	return row, nil
}

func row(accountId string, ratings ...string) dataset.AccountRow {
	return dataset.AccountRow{AccountId: accountId, Ratings: ratings}
}

func TestAssemble(t *testing.T) {
	source := newSliceSource([]string{"1", "17"},
		row("100", "0.5", ""),
		row("200", "", "0.7"))
	ratings, err := Assemble(context.Background(), source, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, ratings.CountItems())
	assert.Equal(t, 2, ratings.CountAccounts())
	assert.Equal(t, 2, ratings.CountObserved())
	assert.Equal(t, []int64{100, 200}, ratings.AccountIds)
	// sized to the accounts read, not to the cap
	_, cols := ratings.Y.Dims()
	assert.Equal(t, 2, cols)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{0.5, 0, 0, 0.7}), ratings.Y))
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), ratings.R))
	assert.Equal(t, uint(2), ratings.ItemObserved.Count())
	assert.Equal(t, uint(2), ratings.AccountObserved.Count())
}

func TestAssemble_Cap(t *testing.T) {
	source := newSliceSource([]string{"1"},
		row("1", "0.1"),
		row("2", "0.2"),
		row("3", "0.3"))
	ratings, err := Assemble(context.Background(), source, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ratings.AccountIds)
	assert.Equal(t, 2, source.calls)
	_, cols := ratings.Y.Dims()
	assert.Equal(t, 2, cols)
}

func TestAssemble_ZeroIsObserved(t *testing.T) {
	source := newSliceSource([]string{"1", "2"}, row("1", "0", " "))
	ratings, err := Assemble(context.Background(), source, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ratings.R.At(0, 0))
	assert.Equal(t, 0.0, ratings.R.At(1, 0))
	assert.Equal(t, uint(1), ratings.ItemObserved.Count())
}

func TestAssemble_ShortRow(t *testing.T) {
	source := newSliceSource([]string{"1", "2", "3"}, row("1", "0.4"))
	ratings, err := Assemble(context.Background(), source, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, ratings.CountObserved())
	assert.Equal(t, 0.4, ratings.Y.At(0, 0))
}

func TestAssemble_DuplicateAccount(t *testing.T) {
	source := newSliceSource([]string{"1"}, row("7", "0.1"), row("7", "0.2"))
	ratings, err := Assemble(context.Background(), source, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 7}, ratings.AccountIds)
	assert.Equal(t, 2, ratings.CountObserved())
}

func TestAssemble_Errors(t *testing.T) {
	// invalid cap
	_, err := Assemble(context.Background(), newSliceSource([]string{"1"}, row("1", "0.1")), 0)
	assert.Error(t, err)
	// no items
	_, err = Assemble(context.Background(), newSliceSource(nil, row("1")), 10)
	assert.Error(t, err)
	// no accounts
	_, err = Assemble(context.Background(), newSliceSource([]string{"1"}), 10)
	assert.Error(t, err)
	// invalid account id
	_, err = Assemble(context.Background(), newSliceSource([]string{"1"}, row("abc", "0.1")), 10)
	assert.Error(t, err)
	// invalid rating
	_, err = Assemble(context.Background(), newSliceSource([]string{"1"}, row("1", "high")), 10)
	assert.ErrorContains(t, err, "item 1")
	// too many ratings
	_, err = Assemble(context.Background(), newSliceSource([]string{"1"}, row("1", "0.1", "0.2")), 10)
	assert.Error(t, err)
}

func TestAssemble_StatsReader(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(strings.Join([]string{
		"account_id,1,17,33",
		"100,0.5,,0.25",
		"200,,0.75,",
		"300,1,1,1",
	}, "\n")))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader, err := dataset.NewStatsReader(&buf)
	require.NoError(t, err)
	defer reader.Close()
	ratings, err := Assemble(context.Background(), reader, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, ratings.CountItems())
	assert.Equal(t, []int64{100, 200}, ratings.AccountIds)
	assert.Equal(t, 3, ratings.CountObserved())
	assert.Equal(t, 0.75, ratings.Y.At(1, 1))
}

func TestAssemble_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := newSliceSource([]string{"1"}, row("1", "0.1"), row("2", "0.2"))
	_, err := Assemble(ctx, source, 10)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Zero(t, source.calls)
}

func TestAssemble_UnratedAccounts(t *testing.T) {
	source := newSliceSource([]string{"1", "2"},
		row("1", "0.1", ""),
		row("2", "", ""),
		row("3"))
	ratings, err := Assemble(context.Background(), source, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, ratings.CountAccounts())
	assert.Equal(t, 2, ratings.CountUnratedAccounts())
	assert.True(t, ratings.AccountObserved.Test(0))
	assert.False(t, ratings.AccountObserved.Test(1))
}
