package gamemaster

import (
	"context"
	"errors"
	"fmt"

	"wargame/communication"

	"github.com/rs/zerolog/log"
)

// GameMaster feeds the changes arriving on a communicator into an engine.
type GameMaster struct {
	Communicator communication.Communicator
	Engine       Engine
}

// NewGameMaster initializes a new GameMaster.
func NewGameMaster(comm communication.Communicator, engine Engine) *GameMaster {
	return &GameMaster{
		Communicator: comm,
		Engine:       engine,
	}
}

// Follow applies received changes until the context ends or the communicator closes.
// A change that cannot be applied is logged and skipped.
func (gm *GameMaster) Follow(ctx context.Context) error {
	for {
		c, err := gm.Communicator.ReceiveChange(ctx)
		if err != nil {
			if errors.Is(err, communication.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive change: %w", err)
		}

		if err := gm.Engine.Apply(c); err != nil {
			log.Warn().Err(err).Msg("skipping change")
			continue
		}
		log.Debug().Str("change", c.Log).Uint64("hash", uint64(gm.Engine.Hash())).Msg("applied")
	}
}
