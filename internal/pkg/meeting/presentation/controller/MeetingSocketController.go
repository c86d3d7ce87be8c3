package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/middleware"
	meeting "go-huddle/internal/pkg/meeting/application/domain"
	"go-huddle/internal/pkg/meeting/application/usecase"
	"go-huddle/internal/pkg/meeting/persistence/repository/adapter"
)

// MeetingSocketController handles the websocket endpoint for realtime meeting traffic.
// Clients resolve a meeting code, receive a state snapshot, and then get every
// published meeting event forwarded through the pub/sub bridge.
type MeetingSocketController struct {
	router    *realtime.Router
	resolveUC *usecase.ResolveMeetingUseCase
}

func NewMeetingSocketController(pool *pgxpool.Pool, cache cacheport.Cache, router *realtime.Router) *MeetingSocketController {
	repo := adapter.NewPgMeetingRepository(pool)
	return &MeetingSocketController{
		router:    router,
		resolveUC: usecase.NewResolveMeetingUseCase(repo, cache),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; origin policy lives at the edge proxy.
		return true
	},
}

type inboundFrame struct {
	Type string `json:"type"`
	Code string `json:"code,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type snapshotFrame struct {
	Type         string           `json:"type"`
	Meeting      meetingDTO       `json:"meeting"`
	Participants []participantDTO `json:"participants"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and serves frames until the client disconnects.
func (ctl *MeetingSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Browsers cannot set headers on websocket dials, so the token rides
		// in the query string.
		claims, err := middleware.ParseToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "unauthorized", "message": "token is invalid or expired"}})
			return
		}
		userID := claims.UserID
		if userID == "" {
			userID = claims.Subject
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if code := c.Query("code"); code != "" {
			ctl.handleWatch(c, conn, code)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "watch":
				if frame.Code == "" {
					ctl.replyError(conn, "bad_request", "code is required")
					continue
				}
				ctl.handleWatch(c, conn, frame.Code)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

// handleWatch resolves the meeting code, checks membership, joins the room, and
// replies with a state snapshot so the client starts from the current truth.
func (ctl *MeetingSocketController) handleWatch(c *gin.Context, conn *realtime.Connection, code string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	m, participants, err := ctl.resolveUC.Execute(ctx, code)
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	member := false
	for _, p := range participants {
		if p.UserID == conn.UserID {
			member = true
			break
		}
	}
	if !member {
		ctl.replyError(conn, "forbidden", "user is not a participant in this meeting")
		return
	}

	ctl.router.Join(m.ID, conn)

	snapshot := snapshotFrame{
		Type:         "snapshot",
		Meeting:      toMeetingDTO(m),
		Participants: make([]participantDTO, 0, len(participants)),
	}
	for i := range participants {
		snapshot.Participants = append(snapshot.Participants, toParticipantDTO(&participants[i]))
	}
	_ = conn.SendJSON(snapshot)
}

func (ctl *MeetingSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, meeting.ErrNotFound):
		ctl.replyError(conn, "not_found", "meeting not found")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *MeetingSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:  "error",
		Code:  code,
		Error: message,
	}
	_ = conn.SendJSON(frame)
}
