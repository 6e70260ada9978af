package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"wargame/communication"
	"wargame/communication/client"
	"wargame/communication/server"
	"wargame/engine"
	"wargame/experiments"
	"wargame/experiments/metrics"
	"wargame/game"
	"wargame/meta"
	"wargame/player"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("wargame")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML scenario and rules file",
	}
	levelFlag := &cli.StringFlag{
		Name:  "log-level",
		Usage: "overrides the configured log level (debug, info, warn, error)",
	}

	return &cli.Command{
		Name:  "wargame",
		Usage: "aircraft sheets on a shared map",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "line-mode session over the configured scenario",
				Flags: []cli.Flag{
					configFlag,
					levelFlag,
					&cli.StringFlag{
						Name:  "relay",
						Usage: "websocket URL of a relay, e.g. ws://localhost:8080/ws",
					},
					&cli.StringFlag{
						Name:  "journal",
						Usage: "write the change journal as CSV on exit",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return play(ctx, cfg, c.String("relay"), c.String("journal"), os.Stdin, os.Stdout)
				},
			},
			{
				Name:  "serve",
				Usage: "run the websocket relay",
				Flags: []cli.Flag{
					levelFlag,
					&cli.StringFlag{
						Name:  "addr",
						Value: ":8080",
						Usage: "listen address",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if _, err := loadConfig(c); err != nil {
						return err
					}
					return serve(ctx, c.String("addr"))
				},
			},
			{
				Name:  "follow",
				Usage: "mirror the changes relayed from other participants",
				Flags: []cli.Flag{
					configFlag,
					levelFlag,
					&cli.StringFlag{
						Name:     "url",
						Usage:    "websocket URL of the relay",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return follow(ctx, cfg, c.String("url"))
				},
			},
			{
				Name:  "run",
				Usage: "play a script of session lines and store its journal",
				Flags: []cli.Flag{
					configFlag,
					levelFlag,
					&cli.StringFlag{
						Name:     "script",
						Usage:    "file with one session line per line",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Value: "journals",
						Usage: "directory for the journal CSV",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					f, err := os.Open(c.String("script"))
					if err != nil {
						return fmt.Errorf("failed to open script: %w", err)
					}
					defer f.Close()

					writer, err := metrics.NewWriter(c.String("out"))
					if err != nil {
						return err
					}
					name := fmt.Sprintf("journal_%s.csv", time.Now().Format("20060102_150405"))
					result, err := experiments.RunScript(cfg, f, writer, name)
					if err != nil {
						return err
					}
					fmt.Printf("%+v\n", result)
					return nil
				},
			},
		},
	}
}

// loadConfig reads the config named by the flags and sets up the global logger.
func loadConfig(c *cli.Command) (meta.Config, error) {
	cfg, err := meta.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, fmt.Errorf("bad log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return cfg, nil
}

func play(ctx context.Context, cfg meta.Config, relay, journal string, in *os.File, out io.Writer) error {
	var comm communication.Communicator
	if relay != "" {
		cl, err := client.Dial(ctx, relay)
		if err != nil {
			return err
		}
		defer cl.Close()
		comm = cl
	}

	p, err := player.NewPlayer(cfg, comm)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan engine.Event)
	done := make(chan error, 1)
	go func() {
		done <- p.Play(ctx, events, comm)
	}()

	interactive := term.IsTerminal(int(in.Fd()))
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "> ")
		}
	}
	if interactive {
		fmt.Fprintln(out, "select <id>, key <name>, click <x> <y>, range <n>, state <id>, undo, quit")
	}

	reply := make(chan error, 1)
	scanner := bufio.NewScanner(in)
	prompt()
	for scanner.Scan() {
		cmd, err := engine.ParseLine(scanner.Text())
		switch {
		case err != nil:
			fmt.Fprintln(out, err)
		case cmd.Quit:
			cancel()
		case cmd.Empty:
		case cmd.State != "":
			id := cmd.State
			cmd.Event = engine.Event{Kind: engine.InspectEvent, Inspect: func(board *game.Map) {
				if s := game.SheetOf(board.Piece(id)); s != nil {
					fmt.Fprintf(out, "%s at %v: %s\n", id, s.Position(), s.StateToken())
				} else {
					fmt.Fprintf(out, "%s has no sheet\n", id)
				}
			}}
			fallthrough
		default:
			cmd.Event.Reply = reply
			select {
			case events <- cmd.Event:
				if err := <-reply; err != nil {
					fmt.Fprintln(out, err)
				}
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}
		prompt()
	}
	close(events)
	cancel()
	if err := <-done; err != nil {
		return err
	}

	summary := p.Metrics.Complete()
	log.Info().Msgf("session over: %+v", summary)

	if journal != "" {
		writer, err := metrics.NewWriter(filepath.Dir(journal))
		if err != nil {
			return err
		}
		path, err := writer.WriteJournal(filepath.Base(journal), p.Master.Journal())
		if err != nil {
			return err
		}
		log.Info().Msgf("stored journal in %s", path)
	}
	return nil
}

func serve(ctx context.Context, addr string) error {
	hub := server.NewHub()
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("relay listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("relay stopped: %w", err)
	}
	return nil
}

func follow(ctx context.Context, cfg meta.Config, url string) error {
	cl, err := client.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer cl.Close()

	p, err := player.NewPlayer(cfg, nil)
	if err != nil {
		return err
	}

	updates := p.Master.Subscribe()
	go func() {
		for u := range updates {
			log.Info().Int("seq", u.Seq).Uint64("hash", uint64(u.Hash)).Msg(u.Change.Log)
		}
	}()
	defer p.Master.Close()

	return p.Follow(ctx, cl)
}
