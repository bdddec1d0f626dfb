package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Flight is one discovered flight folder.
type Flight struct {
	// ID is the normalized flight identifier, e.g. "f06".
	ID string
	// Dir is the folder path.
	Dir string
}

// flightDirPattern matches flight folder names: starting with 'f' and
// ending in a digit, e.g. "f6", "f06", "flight12".
var flightDirPattern = regexp.MustCompile(`^f.*[0-9]$`)

// DiscoverFlights lists the flight folders directly under root and derives
// a normalized f%02d identifier from the digits in each name.
func DiscoverFlights(root string) ([]Flight, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read flight root: %w", err)
	}

	var flights []Flight
	for _, entry := range entries {
		if !entry.IsDir() || !flightDirPattern.MatchString(entry.Name()) {
			continue
		}
		num, err := flightNumber(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("flight folder %s: %w", entry.Name(), err)
		}
		flights = append(flights, Flight{
			ID:  fmt.Sprintf("f%02d", num),
			Dir: filepath.Join(root, entry.Name()),
		})
	}
	return flights, nil
}

// flightNumber extracts the concatenated digits from a folder name.
func flightNumber(name string) (int, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, name)
	if digits == "" {
		return 0, fmt.Errorf("no digits in name")
	}
	return strconv.Atoi(digits)
}
