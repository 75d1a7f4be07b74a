package ltime

import (
	"time"
)

type Sleeper interface {
	Sleep(duration time.Duration)
}

type WallSleeper struct{}

func (WallSleeper) Sleep(duration time.Duration) {
	time.Sleep(duration)
}

var _ Sleeper = WallSleeper{}

func NewWallSleeper() WallSleeper {
	return WallSleeper{}
}

type TestingSleeper struct{}

func (TestingSleeper) Sleep(duration time.Duration) {
}

var _ Sleeper = TestingSleeper{}

func NewTestingSleeper() TestingSleeper {
	return TestingSleeper{}
}
