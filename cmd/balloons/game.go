package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/sage-audio/audio"
	"github.com/lixenwraith/sage-audio/status"
)

const (
	burstDuration  = 300 * time.Millisecond
	errorBlinkMs   = 500
	balloonSpawnMs = 1500
	maxBalloons    = 20
)

var balloonColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorYellow,
	tcell.ColorPurple,
}

type Balloon struct {
	rune  rune
	x, y  int
	color tcell.Color
}

// burst is the debris of a popped balloon
type burst struct {
	x, y  int
	color tcell.Color
	at    time.Time
}

// Game is a typing toy: each letter on screen is a balloon, typing it pops it
type Game struct {
	screen        tcell.Screen
	sound         *audio.SoundManager
	metrics       *status.Registry // optional
	width, height int

	cursorX, cursorY int
	cursorError      bool
	cursorErrorTime  time.Time

	bursts    []burst
	balloons  []Balloon
	lastSpawn time.Time
	popped    int

	// Music held by the player, not by focus loss
	userPaused bool
}

func NewGame(screen tcell.Screen, sound *audio.SoundManager) *Game {
	g := &Game{
		screen:    screen,
		sound:     sound,
		lastSpawn: time.Now(),
	}
	g.width, g.height = screen.Size()
	g.cursorX = g.width / 2
	g.cursorY = g.height / 2
	return g
}

func (g *Game) spawnBalloon() Balloon {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	// Play field starts below the status line
	x := rand.IntN(max(g.width, 1))
	y := 1 + rand.IntN(max(g.height-1, 1))
	return Balloon{
		rune:  rune(letters[rand.IntN(len(letters))]),
		x:     x,
		y:     y,
		color: balloonColors[rand.IntN(len(balloonColors))],
	}
}

// expireBursts drops debris older than burstDuration
func (g *Game) expireBursts(now time.Time) {
	kept := g.bursts[:0]
	for _, b := range g.bursts {
		if now.Sub(b.at) < burstDuration {
			kept = append(kept, b)
		}
	}
	g.bursts = kept
}

func (g *Game) handleResize() {
	g.width, g.height = g.screen.Size()
	g.cursorX = min(g.cursorX, g.width-1)
	g.cursorY = min(g.cursorY, g.height-1)

	kept := g.balloons[:0]
	for _, b := range g.balloons {
		if b.x < g.width && b.y < g.height {
			kept = append(kept, b)
		}
	}
	g.balloons = kept
}

// pop removes the balloon matching r and fires the hit sound
func (g *Game) pop(r rune) bool {
	for i, b := range g.balloons {
		if b.rune != r {
			continue
		}
		g.bursts = append(g.bursts, burst{x: b.x, y: b.y, color: b.color, at: time.Now()})
		g.cursorX, g.cursorY = b.x, b.y
		g.balloons = append(g.balloons[:i], g.balloons[i+1:]...)
		g.popped++
		g.sound.PlaySoundForGameEvent(audio.BalloonHit)
		return true
	}
	return false
}

func (g *Game) toggleMusicPause() {
	g.userPaused = !g.userPaused
	if g.userPaused {
		g.sound.PauseBgMusic()
	} else {
		g.sound.ResumeBgMusic()
	}
}

// handleInput returns false when the game should exit
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyF2:
			log.Info("sound toggled", "enabled", g.sound.ToggleSoundStatus())
		case tcell.KeyF3:
			log.Info("music toggled", "enabled", g.sound.ToggleMusicStatus())
			g.userPaused = false
		case tcell.KeyF4:
			g.toggleMusicPause()
		case tcell.KeyRune:
			if !g.pop(ev.Rune()) {
				g.cursorError = true
				g.cursorErrorTime = time.Now()
			}
		}

	case *tcell.EventFocus:
		// Losing focus is the terminal's version of the host going to background
		if g.userPaused {
			return true
		}
		if ev.Focused {
			g.sound.ResumeBgMusic()
		} else {
			g.sound.PauseBgMusic()
		}

	case *tcell.EventResize:
		g.handleResize()
		g.screen.Sync()
	}
	return true
}

func (g *Game) drawStatus() {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	music := onOff(g.sound.MusicStatus())
	if g.userPaused && g.sound.MusicStatus() {
		music = "paused"
	}
	line := fmt.Sprintf(" popped %d | F2 sound: %s | F3 music: %s | F4 pause | Esc quit ",
		g.popped, onOff(g.sound.SoundStatus()), music)
	if g.metrics != nil {
		line += fmt.Sprintf("| voices %d ", g.metrics.Ints.Get("pool.active").Load())
	}

	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < g.width; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		g.screen.SetContent(x, 0, r, nil, style)
	}
}

func (g *Game) draw() {
	g.screen.Clear()

	for _, b := range g.balloons {
		g.screen.SetContent(b.x, b.y, b.rune, nil, tcell.StyleDefault.Foreground(b.color))
	}

	// Debris flies outward one cell per third of the burst
	now := time.Now()
	for _, b := range g.bursts {
		r := 1 + int(3*now.Sub(b.at)/burstDuration)
		style := tcell.StyleDefault.Foreground(b.color)
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, 1}, {-1, 1}, {1, -1}} {
			x, y := b.x+d[0]*r, b.y+d[1]*r
			if x >= 0 && x < g.width && y >= 1 && y < g.height {
				g.screen.SetContent(x, y, '*', nil, style)
			}
		}
	}

	if g.cursorError && time.Since(g.cursorErrorTime).Milliseconds() > errorBlinkMs {
		g.cursorError = false
	}
	cursorStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	if g.cursorError {
		cursorStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	}
	g.screen.SetContent(g.cursorX, g.cursorY, ' ', nil, cursorStyle)

	g.drawStatus()
	g.screen.Show()
}

func (g *Game) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !g.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if time.Since(g.lastSpawn).Milliseconds() > balloonSpawnMs && len(g.balloons) < maxBalloons {
				g.balloons = append(g.balloons, g.spawnBalloon())
				g.lastSpawn = time.Now()
			}
			g.expireBursts(time.Now())
			g.draw()
		}
	}
}
