package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wargame/communication"
	"wargame/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

// Client is a Communicator connected to a relay hub.
type Client struct {
	conn     *websocket.Conn
	incoming chan game.Change
	writeMu  sync.Mutex
	done     chan struct{}
	once     sync.Once
}

// Dial connects to the hub at url, e.g. ws://localhost:8080/ws.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		conn:     conn,
		incoming: make(chan game.Change, 64),
		done:     make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

func (c *Client) SendChange(change game.Change) error {
	data, err := communication.Encode(communication.Envelope{Change: change})
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.done:
		return communication.ErrClosed
	default:
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write change: %w", err)
	}
	return nil
}

func (c *Client) ReceiveChange(ctx context.Context) (game.Change, error) {
	select {
	case <-ctx.Done():
		return game.Change{}, ctx.Err()
	case change, ok := <-c.incoming:
		if !ok {
			return game.Change{}, communication.ErrClosed
		}
		return change, nil
	}
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readPump() {
	defer close(c.incoming)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Warn().Err(err).Msg("relay connection lost")
			}
			return
		}
		env, err := communication.Decode(data)
		if err != nil {
			log.Warn().Err(err).Msg("dropping malformed change")
			continue
		}
		select {
		case c.incoming <- env.Change:
		case <-c.done:
			return
		}
	}
}
