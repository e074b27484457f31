// Package command turns lines of a command file into Database calls and
// renders their results as console text.
package command

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnrecognized is returned by Parse for a line that is not a command.
var ErrUnrecognized = errors.New("unrecognized command")

// Op names a command.
type Op int

const (
	Insert       Op = iota + 1 // insert NAME X Y
	RemoveByName               // remove NAME
	RemoveAt                   // remove X Y
	RegionSearch               // regionsearch X Y W H
	Duplicates                 // duplicates
	Search                     // search NAME
	Dump                       // dump
)

// Command is one parsed line.
type Command struct {
	Op   Op
	Name string
	// Integer arguments in the order they appeared.
	Args []int
}

// Parse reads a single whitespace-separated command:
//
//	insert NAME X Y
//	remove NAME
//	remove X Y
//	regionsearch X Y W H
//	duplicates
//	search NAME
//	dump
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrUnrecognized
	}
	args := fields[1:]
	switch {
	case fields[0] == "insert" && len(args) == 3:
		return withInts(Command{Op: Insert, Name: args[0]}, args[1:])
	case fields[0] == "remove" && len(args) == 1:
		return Command{Op: RemoveByName, Name: args[0]}, nil
	case fields[0] == "remove" && len(args) == 2:
		return withInts(Command{Op: RemoveAt}, args)
	case fields[0] == "regionsearch" && len(args) == 4:
		return withInts(Command{Op: RegionSearch}, args)
	case fields[0] == "duplicates" && len(args) == 0:
		return Command{Op: Duplicates}, nil
	case fields[0] == "search" && len(args) == 1:
		return Command{Op: Search, Name: args[0]}, nil
	case fields[0] == "dump" && len(args) == 0:
		return Command{Op: Dump}, nil
	}
	return Command{}, ErrUnrecognized
}

func withInts(c Command, fields []string) (Command, error) {
	c.Args = make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Command{}, ErrUnrecognized
		}
		c.Args[i] = n
	}
	return c, nil
}
