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
	"io"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/eigenein/tankopoisk/base/log"
	"github.com/eigenein/tankopoisk/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const assembleLogPeriod = 10000

// RowSource supplies the item index and account rows of a rating table.
type RowSource interface {
	ItemIds() *dataset.Index
	Next() (dataset.AccountRow, error)
}

// Ratings is the dense rating matrix Y and the observed mask R, both of
// shape (#items, #accounts).
type Ratings struct {
	ItemIndex  *dataset.Index
	AccountIds []int64
	Y          *mat.Dense
	R          *mat.Dense
	// Rows of R with at least one observation.
	ItemObserved *bitset.BitSet
	// Columns of R with at least one observation.
	AccountObserved *bitset.BitSet
}

func (ratings *Ratings) CountItems() int {
	return ratings.ItemIndex.Count()
}

func (ratings *Ratings) CountAccounts() int {
	return len(ratings.AccountIds)
}

// CountObserved returns the number of observed ratings.
func (ratings *Ratings) CountObserved() int {
	return int(mat.Sum(ratings.R))
}

// CountUnratedAccounts returns the number of accounts without observed ratings.
func (ratings *Ratings) CountUnratedAccounts() int {
	return ratings.CountAccounts() - int(ratings.AccountObserved.Count())
}

type observation struct {
	item    int
	account int
	rating  float64
}

// Assemble reads at most numAccounts rows from source and builds Y and R.
// Empty ratings are unobserved. The row after the cap is never requested.
// Reading stops with the context error once ctx is done.
func Assemble(ctx context.Context, source RowSource, numAccounts int) (*Ratings, error) {
	if numAccounts <= 0 {
		return nil, errors.NotValidf("number of accounts %d", numAccounts)
	}
	numItems := source.ItemIds().Count()
	if numItems == 0 {
		return nil, errors.Errorf("rating table without items")
	}
	var (
		accountIds   []int64
		observations []observation
		seen         = mapset.NewThreadUnsafeSet[int64]()
		duplicates   int
	)
	for j := 0; j < numAccounts; j++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Annotatef(err, "read account rows after %d rows", j)
		}
		if j%assembleLogPeriod == 0 {
			log.Logger().Info("read account rows", zap.Int("n_rows", j))
		}
		row, err := source.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		accountId, err := strconv.ParseInt(strings.TrimSpace(row.AccountId), 10, 64)
		if err != nil {
			return nil, errors.Annotatef(err, "parse account id of row #%d", j)
		}
		if !seen.Add(accountId) {
			duplicates++
			log.Logger().Warn("duplicate account", zap.Int64("account_id", accountId), zap.Int("row", j))
		}
		if len(row.Ratings) > numItems {
			return nil, errors.Errorf("row #%d (account %d) has %d ratings but there are %d items",
				j, accountId, len(row.Ratings), numItems)
		}
		accountIds = append(accountIds, accountId)
		for i, value := range row.Ratings {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			rating, err := strconv.ParseFloat(value, 64)
			if err != nil {
				itemId, _ := source.ItemIds().String(i)
				return nil, errors.Annotatef(err, "parse rating of item %s by account %d (row #%d)", itemId, accountId, j)
			}
			observations = append(observations, observation{item: i, account: j, rating: rating})
		}
	}
	if len(accountIds) == 0 {
		return nil, errors.Errorf("rating table without accounts")
	}

	ratings := &Ratings{
		ItemIndex:       source.ItemIds(),
		AccountIds:      accountIds,
		Y:               mat.NewDense(numItems, len(accountIds), nil),
		R:               mat.NewDense(numItems, len(accountIds), nil),
		ItemObserved:    bitset.New(uint(numItems)),
		AccountObserved: bitset.New(uint(len(accountIds))),
	}
	for _, o := range observations {
		ratings.Y.Set(o.item, o.account, o.rating)
		ratings.R.Set(o.item, o.account, 1)
		ratings.ItemObserved.Set(uint(o.item))
		ratings.AccountObserved.Set(uint(o.account))
	}
	log.Logger().Info("assemble ratings",
		zap.Int("n_items", numItems),
		zap.Int("n_accounts", len(accountIds)),
		zap.Int("n_observed", len(observations)),
		zap.Int("n_duplicate_accounts", duplicates))
	if unobserved := uint(numItems) - ratings.ItemObserved.Count(); unobserved > 0 {
		log.Logger().Warn("items without ratings", zap.Uint("n_items", unobserved))
	}
	if unobserved := ratings.CountUnratedAccounts(); unobserved > 0 {
		log.Logger().Warn("accounts without ratings", zap.Int("n_accounts", unobserved))
	}
	return ratings, nil
}
