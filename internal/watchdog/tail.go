package watchdog

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// tailReadChunk is how much of the file end is read per step when looking for
// the requested number of lines.
const tailReadChunk = 64 * 1024

// tailLines returns up to n trailing lines of the file at path without
// reading the whole file. Log files rotated by lumberjack stay well under a
// few chunks for any sane tail size.
func tailLines(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	size := info.Size()
	var buf []byte
	offset := size

	for offset > 0 {
		chunk := int64(tailReadChunk)
		if offset < chunk {
			chunk = offset
		}
		offset -= chunk

		part := make([]byte, chunk)
		if _, err := file.ReadAt(part, offset); err != nil && err != io.EOF {
			return nil, err
		}
		buf = append(part, buf...)

		if bytes.Count(buf, []byte{'\n'}) > n {
			break
		}
	}

	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	if offset > 0 && len(lines) > 0 {
		// First line may be a partial read from mid-file.
		lines = lines[1:]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out, nil
}
