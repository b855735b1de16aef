package classify

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Labels maps 0-based class indices to names.
type Labels []string

// Name returns the label for class, or "" when unknown.
func (l Labels) Name(class int) string {
	if class < 0 || class >= len(l) {
		return ""
	}
	return l[class]
}

// LoadLabels reads one label per line. Blank lines keep their index.
func LoadLabels(path string) (Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("classify: labels: %w", err)
	}
	defer f.Close()

	var out Labels
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("classify: labels %s: %w", path, err)
	}
	return out, nil
}
