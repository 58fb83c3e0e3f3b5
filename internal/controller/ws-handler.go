package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/theater"
)

// route registers a typed handler: the envelope payload is unmarshalled
// into T before the handler runs.
func route[T any](c *controller, msgType string, handler func(ctx context.Context, conn *websocket.Conn, input T) error) {
	c.wsmux.Handle(msgType, func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		return handler(ctx, conn, input)
	})
}

type EmptyStruct struct{}

func (es *EmptyStruct) UnmarshalJSON([]byte) error {
	return nil
}

type StateChangeRequestInput struct {
	Kind    domain.ChangeKind `json:"kind"`
	Playing bool              `json:"playing"`
	TimeMs  int64             `json:"time_ms"`
	VideoID int64             `json:"video_id"`
}

func (c controller) handleStateChangeRequest(ctx context.Context, conn *websocket.Conn, input StateChangeRequestInput) error {
	sess := c.getSessionFromCtx(ctx)

	outbounds, err := c.theater.ApplyChangeRequest(ctx, sess.memberID, domain.ChangeRequest{
		Kind:    input.Kind,
		Playing: input.Playing,
		TimeMs:  input.TimeMs,
		VideoID: input.VideoID,
	})
	if err != nil {
		return fmt.Errorf("failed to apply change request: %w", err)
	}
	c.sender.deliver(ctx, outbounds)

	return nil
}

type StateReportInput struct {
	Playing        bool  `json:"playing"`
	CurrentVideoID int64 `json:"current_video_id"`
	CurrentTimeMs  int64 `json:"current_time_ms"`
}

func (c controller) handleStateReport(ctx context.Context, conn *websocket.Conn, input StateReportInput) error {
	sess := c.getSessionFromCtx(ctx)

	outbounds, err := c.theater.ReportState(ctx, sess.memberID, domain.PlaybackState{
		Playing:        input.Playing,
		CurrentVideoID: input.CurrentVideoID,
		CurrentTimeMs:  input.CurrentTimeMs,
	})
	if err != nil {
		return fmt.Errorf("failed to handle state report: %w", err)
	}
	c.sender.deliver(ctx, outbounds)

	return nil
}

func (c controller) handleStateUpdateRequest(ctx context.Context, conn *websocket.Conn, input EmptyStruct) error {
	sess := c.getSessionFromCtx(ctx)

	outbounds, err := c.theater.RequestStateSync(ctx, sess.memberID)
	if err != nil {
		return fmt.Errorf("failed to sync state: %w", err)
	}
	c.sender.deliver(ctx, outbounds)

	return nil
}

type AddVideoInput struct {
	VideoURL string `json:"video_url"`
}

// handleAddVideo resolves metadata off the serve loop so a slow provider
// lookup does not stall the member's other messages. Failure is reported
// only to the submitter.
func (c controller) handleAddVideo(ctx context.Context, conn *websocket.Conn, input AddVideoInput) error {
	sess := c.getSessionFromCtx(ctx)

	go func() {
		ctx := context.WithoutCancel(ctx)

		outbounds, err := c.addVideo(ctx, input.VideoURL)
		if err != nil {
			c.logger.DebugContext(ctx, "failed to add video", "url", input.VideoURL, "error", err)
			c.sender.deliver(ctx, []theater.Outbound{{
				MemberID: sess.memberID,
				Type:     theater.MsgAddVideoFailed,
				Payload:  map[string]string{"url": input.VideoURL},
			}})
			return
		}
		c.sender.deliver(ctx, outbounds)
	}()

	return nil
}

func (c controller) addVideo(ctx context.Context, videoURL string) ([]theater.Outbound, error) {
	videoData, err := c.metadata.Get(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get video data: %w", err)
	}

	outbounds, err := c.theater.AddVideo(ctx, domain.VideoDraft{
		Src:        videoData.Src,
		Title:      videoData.Title,
		Provider:   domain.Provider(videoData.Provider),
		DurationMs: videoData.DurationMs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add video: %w", err)
	}

	return outbounds, nil
}

type UserInfoSetInput struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Resumed   bool   `json:"resumed"`
}

func (c controller) handleUserInfoSet(ctx context.Context, conn *websocket.Conn, input UserInfoSetInput) error {
	sess := c.getSessionFromCtx(ctx)

	outbounds, err := c.theater.SetMemberInfo(ctx, sess.memberID, domain.ChatUserInfo{
		Name:      input.Name,
		AvatarURL: input.AvatarURL,
		Resumed:   input.Resumed,
	})
	if err != nil {
		return fmt.Errorf("failed to set member info: %w", err)
	}
	c.sender.deliver(ctx, outbounds)

	return nil
}

func (c controller) handleUserInfoClear(ctx context.Context, conn *websocket.Conn, input EmptyStruct) error {
	sess := c.getSessionFromCtx(ctx)

	outbounds, err := c.theater.ClearMemberInfo(ctx, sess.memberID)
	if err != nil {
		return fmt.Errorf("failed to clear member info: %w", err)
	}
	c.sender.deliver(ctx, outbounds)

	return nil
}

func (c controller) handleWroteMessage(ctx context.Context, conn *websocket.Conn, input string) error {
	sess := c.getSessionFromCtx(ctx)

	outbounds, err := c.theater.WroteMessage(ctx, sess.memberID, input)
	if err != nil {
		return fmt.Errorf("failed to handle chat message: %w", err)
	}
	c.sender.deliver(ctx, outbounds)

	return nil
}

type PongInput struct {
	ID int `json:"id"`
}

func (c controller) handlePong(ctx context.Context, conn *websocket.Conn, input PongInput) error {
	sess := c.getSessionFromCtx(ctx)

	rtt, ok := sess.resolvePing(input.ID)
	if !ok {
		return fmt.Errorf("unknown ping id %d", input.ID)
	}

	if err := c.theater.RecordLatency(sess.memberID, rtt); err != nil {
		if errors.Is(err, theater.ErrMemberNotFound) {
			return nil
		}
		return fmt.Errorf("failed to record latency: %w", err)
	}

	return nil
}
