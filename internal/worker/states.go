package worker

import "github.com/looplab/fsm"

// Worker states.
const (
	StateSelecting  = "selecting"
	StateProducing  = "producing"
	StateCommitting = "committing"
	StateStopped    = "stopped"
)

// Worker events.
const (
	EventReserve = "reserve"
	EventFinish  = "finish"
	EventCommit  = "commit"
	EventStop    = "stop"
)

var transitions = fsm.Events{
	{Name: EventReserve, Src: []string{StateSelecting}, Dst: StateProducing},
	{Name: EventFinish, Src: []string{StateProducing}, Dst: StateCommitting},
	{Name: EventCommit, Src: []string{StateCommitting}, Dst: StateSelecting},
	{Name: EventStop, Src: []string{StateSelecting}, Dst: StateStopped},
}
