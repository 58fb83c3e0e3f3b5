// Package protocol names the client-to-server half of the message
// surface; the server-to-client half lives with the engine that
// produces it.
package protocol

const (
	MsgStateChangeRequest = "state_change_request"
	MsgStateReport        = "state_report"
	MsgStateUpdateRequest = "state_update_request"
	MsgAddVideo           = "add_video"
	MsgUserInfoSet        = "user_info_set"
	MsgUserInfoClear      = "user_info_clear"
	MsgWroteMessage       = "wrote_message"
	MsgPong               = "pong"
)

// PingPayload travels in both directions: the server stamps an id on
// each liveness probe and the client echoes it back untouched.
type PingPayload struct {
	ID int `json:"id"`
}
