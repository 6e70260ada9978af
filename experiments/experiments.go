package experiments

import (
	"bufio"
	"fmt"
	"io"

	"wargame/engine"
	"wargame/experiments/metrics"
	"wargame/meta"
	"wargame/player"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of one scripted session.
type Result struct {
	Metric  metrics.SessionMetric
	Journal string // path of the written journal, empty when no writer was given
	Errors  int    // lines that failed to parse or were rejected
}

// RunScript plays the session lines of script against a fresh scenario from cfg and writes
// the journal as name through writer.
func RunScript(cfg meta.Config, script io.Reader, writer *metrics.Writer, name string) (Result, error) {
	p, err := player.NewPlayer(cfg, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build scenario: %w", err)
	}
	p.Metrics.Start()

	log.Info().Msgf("starting %s session...", name)

	result := Result{}
	scanner := bufio.NewScanner(script)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		cmd, err := engine.ParseLine(scanner.Text())
		if err != nil {
			log.Warn().Err(err).Int("line", lineNo).Msg("skipping line")
			result.Errors++
			continue
		}
		if cmd.Quit {
			break
		}
		if cmd.Empty {
			continue
		}
		if cmd.State != "" {
			if s := p.Sheet(cmd.State); s != nil {
				log.Info().Msgf("%s: %s", cmd.State, s.StateToken())
			}
			continue
		}
		if err := p.Handle(cmd.Event); err != nil {
			result.Errors++
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read script: %w", err)
	}

	result.Metric = p.Metrics.Complete()
	log.Info().Msgf("completed %s session: %+v", name, result.Metric)

	if writer != nil {
		path, err := writer.WriteJournal(name, p.Master.Journal())
		if err != nil {
			return result, err
		}
		result.Journal = path
		log.Info().Msgf("stored journal in %s", path)
	}
	return result, nil
}
