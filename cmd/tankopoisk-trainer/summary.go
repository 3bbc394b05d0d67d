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
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/eigenein/tankopoisk/base/progress"
	"github.com/eigenein/tankopoisk/model/mf"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
)

func printSummary(w io.Writer, ratings *mf.Ratings, result mf.Result, spans []progress.Progress) error {
	table := tablewriter.NewWriter(w)
	table.Header("Summary", "Value")
	if err := table.Bulk([][]string{
		{"Items", strconv.Itoa(ratings.CountItems())},
		{"Accounts", strconv.Itoa(ratings.CountAccounts())},
		{"Accounts without ratings", strconv.Itoa(ratings.CountUnratedAccounts())},
		{"Observed ratings", strconv.Itoa(ratings.CountObserved())},
		{"Iterations", strconv.Itoa(result.Iterations)},
		{"Stalls", strconv.Itoa(result.Stalls)},
		{"Initial cost", fmt.Sprintf("%.3f", result.InitialCost)},
		{"Cost", fmt.Sprintf("%.3f", result.Cost)},
		{"Learning rate", fmt.Sprintf("%g", result.Alpha)},
		{"Interrupted", strconv.FormatBool(result.Interrupted)},
		{"Elapsed", result.Elapsed.String()},
	}); err != nil {
		return errors.Trace(err)
	}
	if err := table.Render(); err != nil {
		return errors.Trace(err)
	}

	if len(spans) == 0 {
		return nil
	}
	table = tablewriter.NewWriter(w)
	table.Header("Task", "Status", "Progress", "Elapsed")
	for _, span := range spans {
		finish := span.FinishTime
		if finish.IsZero() {
			finish = time.Now()
		}
		if err := table.Append([]string{
			span.Name,
			string(span.Status),
			fmt.Sprintf("%d/%d", span.Count, span.Total),
			finish.Sub(span.StartTime).Round(time.Millisecond).String(),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
