package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
	"SignalSweep/internal/usecase"
	xhttp "SignalSweep/pkg/http"
	xlogger "SignalSweep/pkg/logger"
)

const (
	wsWriteWait = 10 * time.Second

	msgProgress = "progress"
	msgResult   = "result"
	msgError    = "error"
)

type streamMessage struct {
	Type  string               `json:"type"`
	Done  int                  `json:"done,omitempty"`
	Total int                  `json:"total,omitempty"`
	Data  *usecase.SweepReport `json:"data,omitempty"`
	Error *xhttp.AppError      `json:"error,omitempty"`
}

// streamObserver forwards progress without ever blocking a sweep worker.
// Updates are dropped while the socket writer is behind.
type streamObserver struct {
	domsvc.NopObserver
	ch chan [2]int
}

func (o streamObserver) OnProgress(done, total int) {
	select {
	case o.ch <- [2]int{done, total}:
	default:
	}
}

// SweepStream runs a sweep configured by query parameters and streams its
// progress over a websocket. Closing the socket cancels the sweep.
func (h *Handler) SweepStream(c echo.Context) error {
	req := &models.SweepRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := req.Space.Check(); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Only control frames are expected; a read error means the client left.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	type outcome struct {
		rep *usecase.SweepReport
		err error
	}
	progress := streamObserver{ch: make(chan [2]int, 64)}
	done := make(chan outcome, 1)
	go func() {
		rep, err := h.svc.Sweep(ctx, sweepParams(req), progress)
		done <- outcome{rep: rep, err: err}
	}()

	for {
		select {
		case p := <-progress.ch:
			if err := writeJSON(conn, streamMessage{Type: msgProgress, Done: p[0], Total: p[1]}); err != nil {
				cancel()
				<-done
				return nil
			}
		case out := <-done:
			msg := streamMessage{Type: msgResult, Data: out.rep}
			if out.err != nil {
				h.logger.Error("sweep stream error", xlogger.Error(out.err))
				msg = streamMessage{Type: msgError, Error: appError(out.err)}
			} else {
				stripCurve(out.rep)
			}
			if err := writeJSON(conn, msg); err == nil {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteWait))
			}
			return nil
		}
	}
}

func writeJSON(conn *websocket.Conn, msg streamMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
