// Package proto implements the textual XT frame format spoken by game
// clients. Frames are percent-delimited: inbound commands look like
// %xt%s%<cmd>%<arg>%...% and server replies like %xt%<cmd>%-1%<arg>%...%.
package proto

import (
	"errors"
	"strconv"
	"strings"
)

// Command tags understood by the server. The dispatch table is closed:
// anything else is a protocol violation.
const (
	CmdGetIgnored   = "gn"
	CmdAddIgnore    = "an"
	CmdRemoveIgnore = "rn"

	CmdGetInventory = "gi"
	CmdGetPlayer    = "gp"
	CmdAddItem      = "ai"
	CmdQueryAwards  = "qpa"
	CmdQueryPins    = "qpp"

	CmdUpdateColor = "upc"
	CmdUpdateHead  = "uph"
	CmdUpdateFace  = "upf"
	CmdUpdateNeck  = "upn"
	CmdUpdateBody  = "upb"
	CmdUpdateHand  = "upa"
	CmdUpdateFeet  = "upe"
	CmdUpdateFlag  = "upl"
	CmdUpdatePhoto = "upp"

	// CmdError is the reply tag for recoverable domain errors.
	CmdError = "e"
)

const (
	framePrefix   = "%xt%s%"
	replyPrefix   = "%xt%"
	replyRoomSlot = "-1"
	sep           = "%"
)

var (
	ErrBadFrame = errors.New("malformed frame")
	ErrBadTag   = errors.New("empty command tag")
)

// Frame is one parsed inbound command.
type Frame struct {
	Cmd  string
	Args []string
}

// Parse decodes an inbound %xt%s%cmd%args...% frame.
func Parse(raw string) (Frame, error) {
	if !strings.HasPrefix(raw, framePrefix) || !strings.HasSuffix(raw, sep) {
		return Frame{}, ErrBadFrame
	}

	body := strings.TrimSuffix(strings.TrimPrefix(raw, framePrefix), sep)
	parts := strings.Split(body, sep)
	if len(parts) == 0 || parts[0] == "" {
		return Frame{}, ErrBadTag
	}

	f := Frame{Cmd: parts[0]}
	if len(parts) > 1 {
		f.Args = parts[1:]
	}
	return f, nil
}

// Reply encodes a server-to-client frame.
func Reply(cmd string, args ...string) string {
	var b strings.Builder
	b.WriteString(replyPrefix)
	b.WriteString(cmd)
	b.WriteString(sep)
	b.WriteString(replyRoomSlot)
	b.WriteString(sep)
	for _, a := range args {
		b.WriteString(a)
		b.WriteString(sep)
	}
	return b.String()
}

// ErrorReply encodes a recoverable domain error frame.
func ErrorReply(code int) string {
	return Reply(CmdError, strconv.Itoa(code))
}
