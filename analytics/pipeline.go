package analytics

import (
	"time"

	"brokerscope/stage"
)

// stageAccumulator collects dwell intervals and current occupants per stage
// while one side's transactions are replayed. It is built fresh per snapshot
// call; nothing here survives an invocation.
type stageAccumulator struct {
	dwells    map[stage.Stage][]float64
	occupants map[stage.Stage][]StageOccupant
}

func newStageAccumulator() *stageAccumulator {
	return &stageAccumulator{
		dwells:    map[stage.Stage][]float64{},
		occupants: map[stage.Stage][]StageOccupant{},
	}
}

// reconstructPipeline replays the stage-transition history of every
// transaction of the given side and produces one StageMetrics per declared
// stage, in declared order. Every declared stage is always present, zeroed
// when nothing touched it.
func reconstructPipeline(side stage.Side, c Collected, now time.Time) []StageMetrics {
	acc := newStageAccumulator()
	for _, t := range c.Transactions {
		if t.Side != side {
			continue
		}
		replayTransaction(t, stageTransitions(c.Timeline[t.ID]), acc, c.ClientNames, now)
	}

	stages := stage.ForSide(side)
	pipeline := make([]StageMetrics, 0, len(stages))
	for _, st := range stages {
		occupants := acc.occupants[st]
		if occupants == nil {
			occupants = []StageOccupant{}
		}
		pipeline = append(pipeline, StageMetrics{
			Stage:                st,
			CurrentOccupantCount: len(occupants),
			AverageDaysInStage:   safeAverage(acc.dwells[st]),
			Occupants:            occupants,
		})
	}
	return pipeline
}

// stageTransitions filters a transaction's timeline down to the entries that
// move it between stages. Rollbacks replay identically to forward changes;
// the direction of movement never affects dwell computation.
func stageTransitions(entries []TimelineEntry) []TimelineEntry {
	transitions := make([]TimelineEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsStageTransition() {
			transitions = append(transitions, e)
		}
	}
	return transitions
}

// replayTransaction walks one transaction's chronological stage transitions,
// accumulating time-in-stage as the cursor moves. A nil cursor (absent
// payload, malformed history) contributes no interval and never aborts the
// replay of other transactions.
func replayTransaction(t Transaction, transitions []TimelineEntry, acc *stageAccumulator, names map[string]string, now time.Time) {
	cursor := initialCursor(t, transitions)
	cursorStart := t.OpenedAt

	for _, e := range transitions {
		if cursor != nil {
			acc.dwells[*cursor] = append(acc.dwells[*cursor], fractionalDays(cursorStart, e.Timestamp))
		}
		cursor = e.NewStage
		cursorStart = e.Timestamp
	}

	// Only ACTIVE transactions have a still-open interval and register as
	// current occupants; closed histories still feed the dwell averages.
	if t.Status != StatusActive || cursor == nil {
		return
	}
	dwell := fractionalDays(cursorStart, now)
	acc.dwells[*cursor] = append(acc.dwells[*cursor], dwell)

	name := names[t.ClientID]
	if name == "" {
		name = t.ClientID
	}
	acc.occupants[*cursor] = append(acc.occupants[*cursor], StageOccupant{
		ClientDisplayName:  name,
		DaysInCurrentStage: round1(dwell),
	})
}

// initialCursor infers what stage the transaction started in. With no
// recorded transitions, the persisted stage field wins, then the side's first
// declared stage. With history, the first entry's previousStage wins; when
// that is itself absent the first declared stage is assumed.
// TODO: confirm with product whether the previousStage bootstrap matches how
// stage history was backfilled for pre-timeline transactions.
func initialCursor(t Transaction, transitions []TimelineEntry) *stage.Stage {
	if len(transitions) == 0 {
		if st := t.CurrentStage(); st != nil {
			cursor := *st
			return &cursor
		}
		return firstDeclared(t.Side)
	}
	if prev := transitions[0].PreviousStage; prev != nil {
		cursor := *prev
		return &cursor
	}
	return firstDeclared(t.Side)
}

func firstDeclared(side stage.Side) *stage.Stage {
	first, ok := stage.First(side)
	if !ok {
		return nil
	}
	return &first
}
