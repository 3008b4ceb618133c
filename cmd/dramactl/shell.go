// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ManuGH/dramahub/internal/session"
)

// extras are gateway calls that bypass the session.
type extras interface {
	PopularSearches(ctx context.Context) ([]string, error)
	Random(ctx context.Context) (json.RawMessage, error)
}

var errQuit = errors.New("quit")

const helpText = `Commands:
  home | vip | dub            switch section
  search <query>              search the catalog
  open [grid] <n>             open the n-th drama of a grid (trending, latest,
                              recommended, vip, dub); defaults to the grid
                              of the current page
  hero                        open the featured drama
  watch                       play the first episode
  ep <n>                      play episode n
  close                       close the player, then the detail view
  popular                     list popular search keywords
  random                      show a random drama record
  help | quit`

type shell struct {
	sess   *session.Session
	extra  extras
	out    io.Writer
	prompt string

	// searched makes "open <n>" target the search results until the next
	// section switch.
	searched bool
}

func (sh *shell) println(a ...any) {
	_, _ = fmt.Fprintln(sh.out, a...)
}

// run reads commands until EOF or quit. Command errors are printed and do
// not end the loop.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if sh.prompt != "" {
			_, _ = fmt.Fprint(sh.out, sh.prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		err := sh.exec(ctx, sc.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			sh.println("error:", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		sh.println(helpText)
		return nil
	case "home", "vip", "dub", "dub-indo":
		sh.searched = false
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetNav, Action: session.ActionSelect, Value: cmd})
	case "search":
		q := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if q == "" {
			return nil
		}
		sh.searched = true
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetSearch, Action: session.ActionSubmit, Value: q})
	case "open":
		c, n, err := sh.gridArgs(args)
		if err != nil {
			return err
		}
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetGrid, Action: session.ActionSelect, Container: c, Index: n - 1})
	case "hero":
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetHero, Action: session.ActionPlay})
	case "watch":
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetDetail, Action: session.ActionWatch})
	case "ep":
		if len(args) != 1 {
			return errors.New("usage: ep <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("episode %q is not a number", args[0])
		}
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetDetail, Action: session.ActionEpisode, Index: n - 1})
	case "close":
		return sh.sess.Dispatch(ctx, session.Event{Target: session.TargetBackdrop, Action: session.ActionClick})
	case "popular":
		words, err := sh.extra.PopularSearches(ctx)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			sh.println("(none)")
			return nil
		}
		for i, w := range words {
			_, _ = fmt.Fprintf(sh.out, "%3d. %s\n", i+1, w)
		}
		return nil
	case "random":
		raw, err := sh.extra.Random(ctx)
		if err != nil {
			return err
		}
		var pretty any
		if json.Unmarshal(raw, &pretty) != nil {
			sh.println(string(raw))
			return nil
		}
		b, _ := json.MarshalIndent(pretty, "", "  ")
		sh.println(string(b))
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

// gridArgs parses "[grid] <n>" into a container and a 1-based position.
func (sh *shell) gridArgs(args []string) (session.Container, int, error) {
	var (
		c   session.Container
		raw string
	)
	switch len(args) {
	case 1:
		c, raw = sh.defaultGrid(), args[0]
	case 2:
		c, raw = session.Container(strings.ToLower(args[0])), args[1]
	default:
		return "", 0, errors.New("usage: open [grid] <n>")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", 0, fmt.Errorf("position %q is not a number", raw)
	}
	return c, n, nil
}

func (sh *shell) defaultGrid() session.Container {
	if sh.searched {
		return session.ContainerRecommended
	}
	switch sh.sess.State().ActiveSection {
	case session.SectionVIP:
		return session.ContainerVIP
	case session.SectionDub:
		return session.ContainerDub
	default:
		return session.ContainerTrending
	}
}
