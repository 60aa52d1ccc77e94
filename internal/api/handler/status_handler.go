package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
)

const (
	statusWriteWait   = 10 * time.Second
	statusMinPongWait = 60 * time.Second
)

// pongWaitFor 每次推送后才发 ping，读超时至少覆盖两个推送间隔
func pongWaitFor(interval time.Duration) time.Duration {
	if wait := 2*interval + statusWriteWait; wait > statusMinPongWait {
		return wait
	}
	return statusMinPongWait
}

// StatusHandler 教室实时状态推送（WebSocket）
type StatusHandler struct {
	svc      service.AvailabilityService
	interval time.Duration
	pongWait time.Duration
	upgrader websocket.Upgrader
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewStatusHandler 创建 StatusHandler；allowedOrigins 为空时允许任意来源
func NewStatusHandler(
	svc service.AvailabilityService,
	interval time.Duration,
	allowedOrigins []string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StatusHandler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatusHandler{
		svc:      svc,
		interval: interval,
		pongWait: pongWaitFor(interval),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		metrics: m,
		logger:  logger.With(zap.String("component", "status_ws")),
	}
}

// Stream 连接后立即推送一次快照，此后按固定间隔推送，直到客户端断开
// GET /ws/classroom-status
func (h *StatusHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.StatusClients.Inc()
		defer h.metrics.StatusClients.Dec()
	}

	// 客户端只发送控制帧；读循环负责感知断开
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(h.pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(h.pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("状态推送连接异常关闭", zap.Error(err))
				}
				return
			}
		}
	}()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(c, conn); err != nil {
			h.logger.Debug("状态推送失败，关闭连接", zap.Error(err))
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(statusWriteWait)); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *StatusHandler) push(c *gin.Context, conn *websocket.Conn) error {
	snapshot, err := h.svc.ClassroomStatus(c.Request.Context(), "")
	if err != nil {
		h.logger.Error("计算教室状态失败", zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "status unavailable"),
			time.Now().Add(statusWriteWait))
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(statusWriteWait))
	return conn.WriteJSON(snapshot)
}
