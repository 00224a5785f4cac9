// Package control defines the command messages used by the UI, the tray and
// background watchers to request actions from the application command loop.
// The command loop is the single owner of the key mapping, which keeps every
// mutation on one goroutine.
package control

import "NagaGUI/session"

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdStop
	CmdLoad
	CmdSave
	CmdClear
	CmdSetKey
	CmdUnsetKey
	CmdReload
	CmdWorkerExited
	CmdStatus
)

func (t CommandType) String() string {
	switch t {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdLoad:
		return "load"
	case CmdSave:
		return "save"
	case CmdClear:
		return "clear"
	case CmdSetKey:
		return "set-key"
	case CmdUnsetKey:
		return "unset-key"
	case CmdReload:
		return "reload"
	case CmdWorkerExited:
		return "worker-exited"
	case CmdStatus:
		return "status"
	}
	return "unknown"
}

// Command is the message sent to Controller.Run. Only the fields relevant to
// Type are read. The optional Reply channel receives the outcome once the
// command has been handled.
type Command struct {
	Type    CommandType
	Path    string // CmdLoad, CmdSave, CmdReload
	Button  int    // CmdSetKey, CmdUnsetKey
	Key     string // CmdSetKey
	Message string // CmdStatus
	Exit    session.Exit
	Reply   chan error // optional reply channel
}
