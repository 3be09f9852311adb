package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Terminal prompts on out and reads y/n answers from in, asking again until
// it gets one of the two. End of input counts as no.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	header string
}

// NewTerminal builds a prompt over the given streams. header is printed above
// every message, for example a banner for sanity check errors.
func NewTerminal(in io.Reader, out io.Writer, header string) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, header: header}
}

func (t *Terminal) Confirm(message string) bool {
	if t.header != "" {
		fmt.Fprintln(t.out, t.header)
	}
	fmt.Fprintln(t.out, message)
	for {
		fmt.Fprint(t.out, "---> Continue? (y/n) ")
		line, err := t.in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true
		case "n":
			return false
		}
		if err != nil {
			if err != io.EOF {
				log.Warn().Err(err).Msg("failed to read confirmation")
			}
			fmt.Fprintln(t.out)
			return false
		}
	}
}
