package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	geoerrors "github.com/kbukum/geokit/errors"
	"github.com/kbukum/geokit/util"
)

// stdinArg asks for standard input among the positional arguments.
const stdinArg = "-"

// maxLineSize bounds one input line.
const maxLineSize = 1 << 20

// readInputs collects locations from args, then files, then stdin. Stdin is
// read when no argument or file is given, or when an argument is "-".
// Blank lines are skipped.
func readInputs(args, files []string, stdin io.Reader) ([]string, error) {
	var locations []string
	useStdin := len(args) == 0 && len(files) == 0

	for _, a := range args {
		if a == stdinArg {
			useStdin = true
			continue
		}
		if loc := util.SanitizeString(a); loc != "" {
			locations = append(locations, loc)
		}
	}

	for _, path := range files {
		lines, err := readFile(path)
		if err != nil {
			return nil, err
		}
		locations = append(locations, lines...)
	}

	if useStdin && stdin != nil {
		lines, err := readLines(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		locations = append(locations, lines...)
	}
	return locations, nil
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, geoerrors.NotFound("input file", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := readLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if line := util.SanitizeString(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
