package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/kushpatel225/pointsdb/database"
)

// Processor runs commands against a Database and writes the console report
// for each one to out.
type Processor struct {
	db  *database.Database
	out io.Writer
	log zerolog.Logger

	// first error writing to out
	err error

	processed    int
	unrecognized int
}

// NewProcessor returns a Processor reporting to out.
func NewProcessor(db *database.Database, out io.Writer, log zerolog.Logger) *Processor {
	return &Processor{db: db, out: out, log: log}
}

func (p *Processor) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

// Run processes every non-blank line of r in order.
func (p *Processor) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := p.Process(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	p.log.Info().
		Str("commands", humanize.Comma(int64(p.processed))).
		Str("unrecognized", humanize.Comma(int64(p.unrecognized))).
		Str("points", humanize.Comma(int64(p.db.Len()))).
		Msg("command file processed")
	return nil
}

// Process runs a single command line.
func (p *Processor) Process(line string) error {
	p.processed++
	c, err := Parse(line)
	if err != nil {
		p.unrecognized++
		p.log.Debug().Str("line", line).Msg("unrecognized command")
		p.printf("Unrecognized command: %s\n", line)
		return p.err
	}
	if err := p.exec(c); err != nil && !database.IsRejection(err) {
		return err
	}
	return p.err
}

func (p *Processor) exec(c Command) error {
	switch c.Op {
	case Insert:
		pt, err := p.db.Insert(c.Name, c.Args[0], c.Args[1])
		if err != nil {
			p.printf("Point rejected: %v\n", pt)
			return err
		}
		p.printf("Point inserted: %v\n", pt)

	case RemoveByName:
		pt, err := p.db.RemoveByName(c.Name)
		if err != nil {
			p.printf("Point not removed: %s\n", c.Name)
			return err
		}
		p.printf("Point removed: %v\n", pt)

	case RemoveAt:
		x, y := c.Args[0], c.Args[1]
		pt, err := p.db.RemoveAt(x, y)
		switch {
		case errors.Is(err, database.ErrNotFound):
			p.printf("Point not found: (%d, %d)\n", x, y)
			return err
		case err != nil:
			p.printf("Point rejected: (%d, %d)\n", x, y)
			return err
		}
		p.printf("Point removed: %v\n", pt)

	case RegionSearch:
		x, y, w, h := c.Args[0], c.Args[1], c.Args[2], c.Args[3]
		found, visited, err := p.db.RegionSearch(x, y, w, h)
		if err != nil {
			p.printf("Rectangle rejected: (%d, %d, %d, %d)\n", x, y, w, h)
			return err
		}
		p.printf("Points intersecting region (%d, %d, %d, %d):\n", x, y, w, h)
		for _, pt := range found {
			p.printf("Point found: %v\n", pt)
		}
		p.printf("%d quadtree nodes visited\n", visited)

	case Duplicates:
		p.printf("Duplicate points:\n")
		for _, d := range p.db.Duplicates() {
			p.printf("(%s)\n", d.Key)
		}

	case Search:
		found, err := p.db.Search(c.Name)
		if len(found) == 0 {
			p.printf("Point not found: %s\n", c.Name)
			return err
		}
		for _, pt := range found {
			p.printf("Found %v\n", pt)
		}

	case Dump:
		p.printf("%s", p.db.Dump())
	}
	return nil
}
