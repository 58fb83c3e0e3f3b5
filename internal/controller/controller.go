package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/theaterparty/server/internal/domain"
	"github.com/theaterparty/server/internal/protocol"
	"github.com/theaterparty/server/internal/theater"
	"github.com/theaterparty/server/pkg/validator"
	"github.com/theaterparty/server/pkg/videometa"
	"github.com/theaterparty/server/pkg/wsrouter"
)

const pingPeriod = 20 * time.Second

type iTheater interface {
	AdmitMember(context.Context, string) ([]theater.Outbound, error)
	RemoveMember(context.Context, string) ([]theater.Outbound, error)
	SetMemberInfo(context.Context, string, domain.ChatUserInfo) ([]theater.Outbound, error)
	ClearMemberInfo(context.Context, string) ([]theater.Outbound, error)
	RecordLatency(string, time.Duration) error
	ApplyChangeRequest(context.Context, string, domain.ChangeRequest) ([]theater.Outbound, error)
	ReportState(context.Context, string, domain.PlaybackState) ([]theater.Outbound, error)
	RequestStateSync(context.Context, string) ([]theater.Outbound, error)
	AddVideo(context.Context, domain.VideoDraft) ([]theater.Outbound, error)
	WroteMessage(context.Context, string, string) ([]theater.Outbound, error)
	ConnectionInfo() []theater.ConnectionStatus
}

type iConnRepo interface {
	Add(conn *websocket.Conn, memberID string) error
	RemoveByConn(conn *websocket.Conn) error
	RemoveByMemberID(memberID string) error
	GetConn(memberID string) (*websocket.Conn, error)
	GetMemberID(conn *websocket.Conn) (string, error)
	Conns() []*websocket.Conn
}

type iVideoMetadata interface {
	Get(ctx context.Context, videoURL string) (*videometa.VideoData, error)
}

type controller struct {
	theater  iTheater
	connRepo iConnRepo
	metadata iVideoMetadata
	wsmux    *wsrouter.WSRouter
	upgrader websocket.Upgrader
	validate *validator.Validator
	logger   *slog.Logger

	sender *sender
}

func NewController(theaterSvc iTheater, connRepo iConnRepo, metadata iVideoMetadata, logger *slog.Logger) *controller {
	c := controller{
		theater:  theaterSvc,
		connRepo: connRepo,
		metadata: metadata,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.New(),
		logger:   logger,
	}
	c.sender = newSender(connRepo, logger)

	c.wsmux = wsrouter.New()
	c.wsmux.OnError(func(ctx context.Context, msgType string, err error) error {
		c.logger.DebugContext(ctx, "failed to handle message", "type", msgType, "error", err)
		return nil
	})
	route(&c, protocol.MsgStateChangeRequest, c.handleStateChangeRequest)
	route(&c, protocol.MsgStateReport, c.handleStateReport)
	route(&c, protocol.MsgStateUpdateRequest, c.handleStateUpdateRequest)
	route(&c, protocol.MsgAddVideo, c.handleAddVideo)
	route(&c, protocol.MsgUserInfoSet, c.handleUserInfoSet)
	route(&c, protocol.MsgUserInfoClear, c.handleUserInfoClear)
	route(&c, protocol.MsgWroteMessage, c.handleWroteMessage)
	route(&c, protocol.MsgPong, c.handlePong)

	return &c
}
