package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/social-feed/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64

	// 入站帧限速：每秒 10 帧，突发 20
	inboundRate  = 10
	inboundBurst = 20
)

// Client 一条已握手的连接，归属一个用户并订阅一个 topic
// 投递经由带缓冲的 send 通道，单 writer 保证单连接内的发布顺序
type Client struct {
	hub    *Hub
	conn   *websocket.Conn // 测试中可为 nil
	userID string
	topic  string

	ch        chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(h *Hub, conn *websocket.Conn, userID, topic string) *Client {
	return &Client{
		hub:    h,
		conn:   conn,
		userID: userID,
		topic:  topic,
		ch:     make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) UserID() string { return c.userID }
func (c *Client) Topic() string  { return c.topic }

// Messages 返回投递通道（只读），供写循环或测试消费
func (c *Client) Messages() <-chan []byte { return c.ch }

// send 尽力投递：连接已关闭或缓冲已满视为失败
func (c *Client) send(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.ch <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// Serve 启动写循环并阻塞在读循环上，连接断开时注销自身
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// readPump 消费入站帧：限速、ping 应答，出错即注销
func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(inboundRate, inboundBurst)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read", zap.String("user", c.userID), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if !limiter.Allow() {
			continue
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			c.send([]byte(`{"type":"pong"}`))
		}
	}
}

// writePump 串行写出 send 通道内容并定期发送 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c)
	}()

	for {
		select {
		case payload := <-c.ch:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
