package mapeditor

import (
	"time"

	"github.com/optimapped/optimapped/internal/insights"
	"github.com/optimapped/optimapped/internal/scoring"
)

// savedMsg reports the outcome of a save.
type savedMsg struct {
	ID  string
	At  time.Time
	Rev uint64
	Err error
}

// insightMsg carries an insight reply.
type insightMsg struct {
	Result insights.Result
}

// reportLoadedMsg supplies the latest assessment for insight prompts.
type reportLoadedMsg struct {
	Report *scoring.Report
}
