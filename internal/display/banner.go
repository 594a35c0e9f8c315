package display

import (
	"fmt"
	"io"

	"github.com/backmassage/pdfdocx/internal/term"
)

const banner = `               _  __     _
 _ __   __| |/ _| __| | ___   _____  __
| '_ \ / _` + "`" + ` | |_ / _` + "`" + ` |/ _ \ / __\ \/ /
| |_) | (_| |  _| (_| | (_) | (__ >  <
| .__/ \__,_|_|  \__,_|\___/ \___/_/\_\
|_|
`

// PrintBanner writes the ASCII art banner, in magenta when colors are on.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta.Sprint(banner))
}
