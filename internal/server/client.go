package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"scene-server/internal/domain"
	"scene-server/internal/engine"
	"scene-server/pkg/api"
	"scene-server/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	joinTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService
type Client struct {
	Game    *engine.GameService
	Conn    *websocket.Conn
	Send    chan api.ServerMessage
	Player  domain.Handle
	Session string

	// done закрывается при выходе writePump
	done chan struct{}
	log  *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	session := uuid.NewString()
	return &Client{
		Game:    game,
		Conn:    conn,
		Send:    make(chan api.ServerMessage, 256),
		Session: session,
		done:    make(chan struct{}),
		log:     logger.Component("client").WithField("session", session),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	inst := c.Game.Default()
	registered := false

	defer func() {
		if registered {
			// Hub закроет канал, пересылка закроет Send, writePump отправит Close
			c.Game.Hub.Unregister(c.Player.Key())
			inst.Leave(c.Player)
			c.log.WithField("player", c.Player.String()).Info("Client disconnected")
		} else {
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN): Token - имя игрока
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		c.log.WithError(err).Warn("Handshake failed")
		return
	}
	name := loginCmd.Token
	if name == "" {
		name = "player_" + c.Session[:8]
	}

	// 2. ВХОД В ЗОНУ
	ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
	player, err := inst.Join(ctx, name)
	cancel()
	if err != nil {
		c.log.WithError(err).Warn("Join failed")
		return
	}
	c.Player = player
	c.log = c.log.WithField("player", player.String())
	c.log.WithField("name", name).Info("Client logged in")

	// 3. ПОДПИСКА НА ОБНОВЛЕНИЯ
	gameUpdates := c.Game.Hub.Register(player.Key())
	registered = true

	// Запускаем пересылку обновлений из Hub в writePump
	go c.forward(gameUpdates)

	c.Game.Hub.SendTo(player.Key(), api.ServerMessage{Type: api.MsgWelcome, Zone: inst.ID, MyEntityID: player.Key()})
	c.submit(api.ClientCommand{Action: "INIT"})

	// 4. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			break
		}
		c.submit(cmd)
	}
}

// submit отправляет команду от имени игрока сессии. Token клиента игнорируется.
func (c *Client) submit(cmd api.ClientCommand) {
	cmd.Token = c.Player.Key()
	if err := c.Game.ProcessCommand(cmd); err != nil {
		c.Game.Hub.SendTo(c.Player.Key(), api.ServerMessage{
			Type: api.MsgLog,
			Log: &api.LogEntry{
				ID:        c.Session + "_" + cmd.Action,
				Text:      err.Error(),
				Type:      "ERROR",
				Timestamp: time.Now().UnixMilli(),
			},
		})
	}
}

// forward пересылает обновления Hub в Send до закрытия канала Hub или выхода writePump.
// Send закрывается здесь и только здесь, если игрок зарегистрирован.
func (c *Client) forward(updates <-chan api.ServerMessage) {
	defer close(c.Send)
	for msg := range updates {
		select {
		case c.Send <- msg:
		case <-c.done:
			c.log.Debug("Writer gone, forwarding stopped")
			return
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		close(c.done)
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
