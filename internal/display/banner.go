package display

import (
	"fmt"
	"io"

	"github.com/backmassage/audioconv/internal/term"
)

// PrintBanner writes the ASCII art banner to w; magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                 _ _
  __ _ _   _  __| (_) ___   ___ ___  _ ____   __
 / _`+"`"+` | | | |/ _`+"`"+` | |/ _ \ / __/ _ \| '_ \ \ / /
| (_| | |_| | (_| | | (_) | (_| (_) | | | \ V /
 \__,_|\__,_|\__,_|_|\___/ \___\___/|_| |_|\_/
`)
	fmt.Fprint(w, term.NC)
}
