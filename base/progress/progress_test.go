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

package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ProgressTestSuite struct {
	suite.Suite
	tracer *Tracer
}

func (suite *ProgressTestSuite) SetupTest() {
	suite.tracer = NewTracer("test")
}

func (suite *ProgressTestSuite) TestLeafProgress() {
	_, span := suite.tracer.Start(context.Background(), "root", 100)
	progressList := suite.tracer.List()
	suite.Equal(1, len(progressList))
	suite.Equal("test", progressList[0].Tracer)
	suite.Equal("root", progressList[0].Name)
	suite.Equal(StatusRunning, progressList[0].Status)
	suite.Empty(progressList[0].Error)
	suite.Equal(100, progressList[0].Total)
	suite.Empty(progressList[0].Count)
	suite.LessOrEqual(progressList[0].StartTime, time.Now())

	span.Add(10)
	progressList = suite.tracer.List()
	suite.Equal(10, progressList[0].Count)
	suite.Equal(StatusRunning, progressList[0].Status)

	span.Add(90)
	span.End()
	progressList = suite.tracer.List()
	suite.Equal(StatusComplete, progressList[0].Status)
	suite.Equal(100, progressList[0].Count)
	suite.False(progressList[0].FinishTime.IsZero())
}

func (suite *ProgressTestSuite) TestSuspendedProgress() {
	_, span := suite.tracer.Start(context.Background(), "root", 100)
	span.Add(42)
	span.End()
	progressList := suite.tracer.List()
	suite.Equal(StatusSuspended, progressList[0].Status)
	suite.Equal(42, progressList[0].Count)
}

func (suite *ProgressTestSuite) TestFailedProgress() {
	_, span := suite.tracer.Start(context.Background(), "root", 100)
	span.Fail(errors.New("boom"))
	progressList := suite.tracer.List()
	suite.Equal(StatusFailed, progressList[0].Status)
	suite.Equal("boom", progressList[0].Error)
}

func (suite *ProgressTestSuite) TestChildProgress() {
	ctx, root := suite.tracer.Start(context.Background(), "root", 1)
	_, child := Start(ctx, "child", 3)
	child.Add(3)
	child.End()
	root.Add(1)
	root.End()
	progressList := suite.tracer.List()
	suite.Equal(2, len(progressList))
	suite.Equal("root", progressList[0].Name)
	suite.Equal("child", progressList[1].Name)
	suite.Equal(StatusComplete, progressList[1].Status)
	suite.Equal(3, progressList[1].Count)
}

func (suite *ProgressTestSuite) TestDetachedSpan() {
	_, span := Start(context.Background(), "detached", 2)
	span.Add(2)
	span.End()
	suite.Equal(StatusComplete, span.progress("")[0].Status)
	suite.Empty(suite.tracer.List())
}

func TestProgressTestSuite(t *testing.T) {
	suite.Run(t, new(ProgressTestSuite))
}
