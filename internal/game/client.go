package game

// Client is one connection's handle on a live player: the identity of the
// socket, the player it authenticated as, and the outbound frame queue the
// write loop drains.
type Client struct {
	ConnID string
	Player *Player
	Frames chan string

	room *Room
}

// NewClient constructs a client with a buffered outbound queue.
func NewClient(connID string, p *Player) *Client {
	return &Client{
		ConnID: connID,
		Player: p,
		Frames: make(chan string, 16),
	}
}

// Room returns the room the client currently occupies, if any.
func (c *Client) Room() *Room { return c.room }

// Send queues an outbound frame without blocking. Slow consumers drop.
func (c *Client) Send(frame string) {
	select {
	case c.Frames <- frame:
	default:
	}
}
