package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/term"
	"github.com/tifye/onduty/assert"
	"github.com/tifye/onduty/duty"
)

const clearSequence = "\033[H\033[2J"

// Console plays a shift over a line based terminal.
type Console struct {
	logger  *log.Logger
	game    *duty.Game
	spawner duty.Spawner

	in  io.Reader
	out io.Writer

	lines chan string
	done  chan struct{}

	styles styles
	clear  bool
}

type Option func(c *Console)

// WithClearScreen clears the screen between turns. It has no effect
// unless the output is a terminal.
func WithClearScreen(enabled bool) Option {
	return func(c *Console) {
		f, ok := c.out.(interface{ Fd() uintptr })
		c.clear = enabled && ok && term.IsTerminal(f.Fd())
	}
}

func New(
	logger *log.Logger,
	game *duty.Game,
	spawner duty.Spawner,
	in io.Reader,
	out io.Writer,
	opts ...Option,
) *Console {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(game)
	assert.AssertNotNil(spawner)
	assert.AssertNotNil(in)
	assert.AssertNotNil(out)

	c := &Console{
		logger:  logger,
		game:    game,
		spawner: spawner,
		in:      in,
		out:     out,
		lines:   make(chan string),
		done:    make(chan struct{}),
		styles:  newStyles(lipgloss.NewRenderer(out)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run plays the shift until it ends and returns its summary. Closing
// the input or cancelling ctx quits the shift.
func (c *Console) Run(ctx context.Context) (duty.Summary, error) {
	go c.readLines()
	defer close(c.done)

	c.welcome(ctx)
	c.game.Start()

	for {
		c.game.Tick()
		phase, err := c.game.Turn(c.spawner)
		if err != nil {
			return c.game.Summary(), err
		}
		if phase.Terminal() {
			break
		}

		c.display()
		line, ok := c.prompt(ctx, ">> ")
		if !ok {
			c.logger.Debug("input closed, quitting shift")
			c.game.Quit()
			continue
		}
		c.clearScreen()

		if err := c.handle(ctx, line); err != nil {
			return c.game.Summary(), err
		}
	}

	summary := c.game.Summary()
	c.gameOver(summary)
	return summary, nil
}

func (c *Console) readLines() {
	defer close(c.lines)
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		select {
		case c.lines <- sc.Text():
		case <-c.done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		c.logger.Error("read input", "err", err)
	}
}

func (c *Console) prompt(ctx context.Context, text string) (string, bool) {
	fmt.Fprint(c.out, text)
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", false
	case line, ok := <-c.lines:
		return line, ok
	}
}

func (c *Console) clearScreen() {
	if c.clear {
		fmt.Fprint(c.out, clearSequence)
	}
}

func (c *Console) handle(ctx context.Context, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		fields = []string{"next"}
	}
	if len(fields) > 1 {
		c.invalidCommand(line)
		return nil
	}

	switch fields[0] {
	case "next", "n":
		_, _, err := c.game.Next()
		return err
	case "prev", "p":
		_, _, err := c.game.Prev()
		return err
	case "report", "r":
		return c.report(ctx)
	case "quit", "q":
		c.game.Quit()
	case "help", "h", "?":
		c.help()
	default:
		c.invalidCommand(line)
	}
	return nil
}

func (c *Console) invalidCommand(line string) {
	fmt.Fprintf(c.out, "Invalid command %q. Type \"help\" for a list of commands.\n", strings.TrimSpace(line))
}

func (c *Console) welcome(ctx context.Context) {
	s := c.game.Settings()
	fmt.Fprintln(c.out, c.styles.title.Render("Welcome to 'I Am On Duty Watching Changes to Rooms'!"))
	fmt.Fprintln(c.out, "Your Mission:")
	fmt.Fprintln(c.out, " - Watch cameras for changes to the rooms.")
	fmt.Fprintln(c.out, " - Type 'n' or 'p' to go to the next or previous camera.")
	fmt.Fprintln(c.out, " - Report anomalies to the control room by typing r and selecting the room and anomaly.")
	fmt.Fprintln(c.out, "    - You will be asked to input a room number, then an anomaly number.")
	fmt.Fprintln(c.out, "    - The only penalty for reporting incorrect anomalies is the time it took to report, so try it out!")
	fmt.Fprintf(c.out, " - You have %.2f hours in-game to complete your shift.\n", float64(s.MaxSeconds)/3600)
	fmt.Fprintf(c.out, " - For every second that passes in real life, %v seconds will pass in-game.\n", s.Timescale)
	fmt.Fprintf(c.out, " - You can only have %d anomalies active at one time before losing the game.\n", s.MaxAnomalies)
	fmt.Fprintf(c.out, " - Changes will begin after %.2f in-game minutes.\n", float64(s.MinSecondsBetweenAnomalies)/60)
	fmt.Fprintln(c.out, "Type 'help' for a list of commands.")
	fmt.Fprintln(c.out, "Good luck!")

	line, ok := c.prompt(ctx, "Press enter to begin or `help` to see a list of commands.\n>> ")
	if !ok {
		return
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "help", "h", "?":
		c.help()
		c.prompt(ctx, "Press enter to begin.\n>> ")
	}
	c.clearScreen()
}

func (c *Console) help() {
	fmt.Fprintln(c.out, "COMMANDS:")
	fmt.Fprintln(c.out, "  next   (n) or <enter>: Go to the next camera")
	fmt.Fprintln(c.out, "  prev   (p): Go to the previous camera")
	fmt.Fprintln(c.out, "  report (r) : Report an anomaly, will prompt for additional details.")
	fmt.Fprintln(c.out, "  quit   (q): Quit the game")
	fmt.Fprintln(c.out, "  help   (h, ?): Print this help message")
}

func (c *Console) display() {
	st := c.game.State()
	if c.game.Settings().Debug {
		fmt.Fprintf(c.out, "(DEBUG) Active Anomalies: %d\n", st.Active)
	}

	if c.game.NearOverload() {
		bar := strings.Repeat("=", 40)
		fmt.Fprintln(c.out, bar)
		fmt.Fprintln(c.out, c.styles.warning.Render("!! WARNING !!: Too many anomalies active at one time. Report anomalies soon or you will fail your shift."))
		fmt.Fprintln(c.out, bar)
		fmt.Fprintln(c.out)
	}

	fmt.Fprintf(c.out, "TIME: %s\n", c.game.Clock())

	v, err := c.game.View()
	if err != nil {
		c.logger.Error("view camera", "err", err)
		return
	}
	if v.Offline {
		fmt.Fprintln(c.out, c.styles.offline.Render("ALL CAMERAS OFFLINE"))
		return
	}
	fmt.Fprintln(c.out, c.styles.camera.Render(fmt.Sprintf("CAMERA %02d: %s", v.Index+1, v.Room)))
	for i, item := range v.Items {
		fmt.Fprintf(c.out, "  [%d] %s\n", i, item)
	}
}

func (c *Console) report(ctx context.Context) error {
	fmt.Fprintf(c.out, "REPORTING ANOMALY\n%s\n", strings.Repeat("-", 20))

	rooms := c.game.Rooms().Rooms()
	fmt.Fprintln(c.out, "  Which room is the anomaly in?")
	for i, r := range rooms {
		fmt.Fprintf(c.out, "    [%02d] %s\n", i+1, r.Name())
	}
	roomNum, ok := c.choose(ctx, "Enter a Room Number (-1 to cancel)", "room", len(rooms))
	if !ok {
		fmt.Fprintln(c.out, "Cancelling report.")
		return nil
	}

	kinds := c.game.Catalog().Kinds()
	fmt.Fprintln(c.out, "  What is the anomaly?")
	for i, k := range kinds {
		fmt.Fprintf(c.out, "    [%02d] %s\n", i+1, k)
	}
	kindNum, ok := c.choose(ctx, "Enter an Anomaly Number (-1 to cancel)", "anomaly", len(kinds))
	if !ok {
		fmt.Fprintln(c.out, "Cancelling report.")
		return nil
	}

	c.clearScreen()
	room, kind := rooms[roomNum-1], kinds[kindNum-1]
	fmt.Fprintf(c.out, "Checking for anomaly %s in room %s", kind, room.Name())

	found, err := c.game.Report(ctx, roomNum-1, kindNum-1)
	if errors.Is(err, duty.ErrOutOfRange) {
		fmt.Fprintln(c.out, "\nInvalid selection.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	fmt.Fprintln(c.out)
	if found {
		fmt.Fprintln(c.out, c.styles.success.Render(fmt.Sprintf("Anomaly [%s] found in room [%s]!", kind, room.Name())))
		fmt.Fprintln(c.out, "Anomaly fixed.")
	} else {
		fmt.Fprintln(c.out, c.styles.failure.Render(fmt.Sprintf("Anomaly [%s] not found in room [%s].", kind, room.Name())))
	}
	return nil
}

// choose prompts until a number in [1,n] is entered. It returns false
// when the operator cancels or the input ends.
func (c *Console) choose(ctx context.Context, text, what string, n int) (int, bool) {
	for {
		line, ok := c.prompt(ctx, text+"\n>> ")
		if !ok {
			return 0, false
		}
		line = strings.TrimSpace(line)
		v, err := strconv.Atoi(line)
		switch {
		case err == nil && v == -1:
			return 0, false
		case err != nil || v < 1 || v > n:
			fmt.Fprintf(c.out, "Invalid %s number %s. Please enter a number between 1 and %d or -1 to cancel.\n", what, line, n)
		default:
			return v, true
		}
	}
}

func (c *Console) gameOver(s duty.Summary) {
	c.clearScreen()
	fmt.Fprintln(c.out, c.styles.gameOver.Render("GAME OVER"))
	switch s.Phase {
	case duty.PhaseOverload:
		fmt.Fprintln(c.out, "You have failed your shift. Too many anomalies active at one time.")
		fmt.Fprintln(c.out, "Active Anomalies:")
		for _, a := range s.Remaining {
			fmt.Fprintf(c.out, "  %s: %s\n", a.Room, a.Kind)
		}
	case duty.PhaseTimeUp:
		fmt.Fprintln(c.out, "Congratulations! You have completed your shift.")
	case duty.PhaseQuit:
		fmt.Fprintln(c.out, "You have quit your shift.")
	}
	fmt.Fprintf(c.out, "Time: %s\n", s.Clock)
	fmt.Fprintf(c.out, "FOUND: %d out of %d total anomalies.\n", s.Found, s.Total)
	fmt.Fprintln(c.out)
}
