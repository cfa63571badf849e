package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/lox/fillblanks/internal/client"
	"github.com/lox/fillblanks/internal/render"
	"github.com/lox/fillblanks/internal/server"
)

// ErrQuit is returned by Execute for the quit command.
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  reset            start a new game with you as judge
  solo on|off      toggle solo mode (judge only)
  join             take a seat and get a hand
  leave            leave the game
  hand             show your hand
  start            start the next round (judge only)
  play N [N...]    play the cards numbered N from your hand
  pick LABEL       pick the winning answer (judge only)
  scores           show the score table
  help             show this help
  quit             exit`

// Command is one parsed input line.
type Command struct {
	Name string
	Args []string
}

// Parse splits a line into a command. A leading slash is accepted so chat
// style input works too.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	return Command{Name: name, Args: fields[1:]}, nil
}

// parseCardNumbers converts 1-based card numbers into hand indices.
func parseCardNumbers(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("play needs at least one card number")
	}
	indices := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(strings.TrimSuffix(arg, ","))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid card number: %s", arg)
		}
		indices[i] = n - 1
	}
	return indices, nil
}

// REPL drives a client from line based input and prints everything the
// server sends.
type REPL struct {
	client   *client.Client
	channel  string
	renderer *render.Renderer
	timeout  time.Duration

	outMu sync.Mutex
	out   io.Writer

	mu      sync.Mutex
	roundID string
	labels  map[string]string
}

// NewREPL binds a REPL to channel. Call Attach before sending commands so
// no broadcast is missed.
func NewREPL(c *client.Client, channel string, out io.Writer, renderer *render.Renderer, timeout time.Duration) *REPL {
	return &REPL{
		client:   c,
		channel:  channel,
		renderer: renderer,
		timeout:  timeout,
		out:      out,
		labels:   make(map[string]string),
	}
}

// Attach subscribes the REPL to incoming messages.
func (r *REPL) Attach() {
	r.client.OnMessage(r.observe)
}

func (r *REPL) observe(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeRoundStarted:
		var data server.RoundStartedData
		if msg.Decode(&data) == nil {
			r.mu.Lock()
			r.roundID = data.RoundID
			r.labels = make(map[string]string)
			r.mu.Unlock()
		}
	case server.MessageTypeRoundComplete:
		var data server.RoundCompleteData
		if msg.Decode(&data) == nil {
			r.mu.Lock()
			r.roundID = data.RoundID
			r.labels = make(map[string]string, len(data.Entries))
			for _, e := range data.Entries {
				r.labels[strings.ToUpper(e.Label)] = e.Player
			}
			r.mu.Unlock()
		}
	case server.MessageTypeSessionReset:
		r.mu.Lock()
		r.roundID = ""
		r.labels = make(map[string]string)
		r.mu.Unlock()
	}

	if text := r.renderer.Message(msg); text != "" {
		r.println(text)
	}
}

func (r *REPL) println(text string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	_, _ = fmt.Fprintln(r.out, text) // Ignore terminal write errors
}

// resolveWinner maps a reveal label to its player; anything else is taken
// as a player id.
func (r *REPL) resolveWinner(arg string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if player, ok := r.labels[strings.ToUpper(arg)]; ok {
		return player
	}
	return arg
}

// currentRound returns the id of the last round seen, or "" for whatever
// round the server has open.
func (r *REPL) currentRound() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roundID
}

// Execute runs one line. Server replies are printed by the message
// handler, so only the error is returned here.
func (r *REPL) Execute(ctx context.Context, line string) error {
	cmd, err := Parse(line)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch cmd.Name {
	case "help", "?":
		r.println(helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "reset", "new":
		_, err = r.client.Reset(ctx, r.channel)
	case "solo":
		if len(cmd.Args) != 1 || (cmd.Args[0] != "on" && cmd.Args[0] != "off") {
			return fmt.Errorf("usage: solo on|off")
		}
		_, err = r.client.SetSolo(ctx, r.channel, cmd.Args[0] == "on")
	case "join":
		_, err = r.client.Join(ctx, r.channel)
	case "leave":
		err = r.client.Leave(ctx, r.channel)
	case "hand":
		_, err = r.client.Hand(ctx, r.channel)
	case "start":
		_, err = r.client.StartRound(ctx, r.channel)
	case "play", "submit":
		indices, perr := parseCardNumbers(cmd.Args)
		if perr != nil {
			return perr
		}
		_, err = r.client.Submit(ctx, r.channel, r.currentRound(), indices)
	case "pick":
		if len(cmd.Args) != 1 {
			return fmt.Errorf("usage: pick LABEL")
		}
		_, err = r.client.JudgePick(ctx, r.channel, r.currentRound(), r.resolveWinner(cmd.Args[0]))
	case "scores":
		_, err = r.client.Scores(ctx, r.channel)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd.Name)
	}
	return err
}

// LineReader yields input lines. io.EOF ends the session and
// readline.ErrInterrupt is treated as a cancelled line.
type LineReader interface {
	Readline() (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader reads lines from in, for pipes and tests.
func NewScannerReader(in io.Reader) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(in)}
}

func (r *scannerReader) Readline() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// NewReadline returns an interactive line editor with command completion.
// Write REPL output to its Stdout so messages arriving mid-line do not
// clobber the prompt.
func NewReadline(prompt, historyFile string) (*readline.Instance, error) {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("reset"),
		readline.PcItem("solo", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("join"),
		readline.PcItem("leave"),
		readline.PcItem("hand"),
		readline.PcItem("start"),
		readline.PcItem("play"),
		readline.PcItem("pick"),
		readline.PcItem("scores"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)

	return readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
}

// Run executes lines from in until EOF, quit or a closed connection.
func (r *REPL) Run(ctx context.Context, in LineReader) error {
	type result struct {
		line string
		err  error
	}
	lines := make(chan result)
	go func() {
		defer close(lines)
		for {
			line, err := in.Readline()
			select {
			case lines <- result{line, err}:
			case <-ctx.Done():
				return
			}
			if err != nil && !errors.Is(err, readline.ErrInterrupt) {
				return
			}
		}
	}()

	r.println(r.renderer.Styles().Info.Render("Playing in " + r.channel + ". Type help for commands."))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.client.Done():
			return fmt.Errorf("connection closed")
		case res, ok := <-lines:
			if !ok {
				return nil
			}
			switch {
			case errors.Is(res.err, readline.ErrInterrupt):
				r.println(r.renderer.Styles().Info.Render("Use quit to exit"))
				continue
			case errors.Is(res.err, io.EOF):
				return nil
			case res.err != nil:
				return res.err
			}
			if strings.TrimSpace(res.line) == "" {
				continue
			}

			err := r.Execute(ctx, res.line)
			var respErr *client.ResponseError
			switch {
			case errors.Is(err, ErrQuit):
				return nil
			case errors.As(err, &respErr):
				// Already printed from the error message.
			case err != nil:
				r.println(r.renderer.Styles().Error.Render(err.Error()))
			}
		}
	}
}
