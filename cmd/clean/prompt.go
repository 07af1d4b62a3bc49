package clean

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptYesNo asks the question on stdout and blocks for an answer on stdin.
// An empty answer defaults to no.
func promptYesNo(question string) bool {
	return askYesNo(os.Stdin, os.Stdout, question)
}

func askYesNo(in io.Reader, out io.Writer, question string) bool {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s [y/N] ", question)

		line, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))

		switch answer {
		case "y", "ye", "yes":
			return true
		case "n", "no", "":
			return false
		}

		if err != nil {
			// Input exhausted without a valid answer
			return false
		}
		fmt.Fprintln(out, "Please respond with 'yes' or 'no' (or 'y' or 'n').")
	}
}
