package communication

import (
	"context"
	"errors"
	"sync"

	"wargame/game"

	jsoniter "github.com/json-iterator/go"
)

var ErrClosed = errors.New("communicator closed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Communicator is an interface that abstracts the communication mechanism.
type Communicator interface {
	SendChange(c game.Change) error
	ReceiveChange(ctx context.Context) (game.Change, error)
	Close() error
}

// Envelope is a change on the wire. Origin is set by the relay.
type Envelope struct {
	Origin int         `json:"origin,omitempty"`
	Change game.Change `json:"change"`
}

func Encode(e Envelope) ([]byte, error) {
	return json.Marshal(e)
}

func Decode(data []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(data, &e)
	return e, err
}

// Loopback is an in-process pair of communicators, used by tests and single-process replicas.
func Loopback() (Communicator, Communicator) {
	a := make(chan game.Change, 64)
	b := make(chan game.Change, 64)
	sh := &shutdown{done: make(chan struct{})}
	return &pipe{out: a, in: b, shutdown: sh}, &pipe{out: b, in: a, shutdown: sh}
}

type shutdown struct {
	once sync.Once
	done chan struct{}
}

type pipe struct {
	*shutdown
	out chan<- game.Change
	in  <-chan game.Change
}

func (p *pipe) SendChange(c game.Change) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case <-p.done:
		return ErrClosed
	case p.out <- c:
		return nil
	}
}

func (p *pipe) ReceiveChange(ctx context.Context) (game.Change, error) {
	select {
	case <-ctx.Done():
		return game.Change{}, ctx.Err()
	case <-p.done:
		return game.Change{}, ErrClosed
	case c := <-p.in:
		return c, nil
	}
}

func (p *pipe) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
