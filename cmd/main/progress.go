package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alsm/ioprogress"
)

// progressReader wraps the wordlist reader so that reading it draws a
// progress bar to stderr. Progress output never reaches stdout, which only
// ever carries the generated password.
func progressReader(r io.Reader, size int64) io.Reader {
	bar := ioprogress.DrawTextFormatBar(40)
	return &ioprogress.Reader{
		Reader: r,
		Size:   size,
		DrawFunc: ioprogress.DrawTerminalf(
			os.Stderr,
			func(progress, total int64) string {
				return fmt.Sprintf(
					"%s %s",
					bar(progress, total),
					ioprogress.DrawTextFormatBytes(progress, total),
				)
			},
		),
	}
}
