package logging

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	cyan    = "\033[36m"
	green   = "\033[32m"
	magenta = "\033[35m"
	dim     = "\033[2m"
)

// logoLines is the base tilecore ASCII art.
var logoLines = [6]string{
	`  _   _ _           ____ ___  ____  _____ `,
	` | |_(_) | ___  ___ / ___/ _ \|  _ \| ____|`,
	` | __| | |/ _ \/ __| |  | | | | |_) |  _|  `,
	` | |_| | |  __/ (__| |__| |_| |  _ <| |___ `,
	`  \__|_|_|\___|\___|\____\___/|_| \_\_____|`,
	`                                            `,
}

// Mode-specific art (right-side, same height as logo).
var serveArt = [6]string{
	`             `,
	`  ___  ___ _ __ _   _____ `,
	` / __|/ _ \ '__\ \ / / _ \`,
	` \__ \  __/ |   \ V /  __/`,
	` |___/\___|_|    \_/ \___|`,
	`                           `,
}

var demoArt = [6]string{
	`            `,
	`  __| | ___ _ __ ___   ___ `,
	` / _` + "`" + ` |/ _ \ '_ ` + "`" + ` _ \ / _ \`,
	`| (_| |  __/ | | | | | (_) |`,
	` \__,_|\___|_| |_| |_|\___/`,
	`                             `,
}

// PrintBanner prints the tilecore ASCII art logo with mode-specific
// art appended to the right, followed by a version/listen info line.
// Colors are used only when stderr is a TTY.
func PrintBanner(mode, ver, addr string) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	var modeArt *[6]string
	var modeColor string
	switch mode {
	case "serve":
		modeArt = &serveArt
		modeColor = green
	default: // demo
		modeArt = &demoArt
		modeColor = magenta
	}

	for i := 0; i < 6; i++ {
		if color {
			fmt.Fprintf(os.Stderr, "%s%s%s%s%s%s\n",
				bold+cyan, logoLines[i], reset,
				bold+modeColor, modeArt[i], reset)
		} else {
			fmt.Fprintf(os.Stderr, "%s%s\n", logoLines[i], modeArt[i])
		}
	}

	if color {
		fmt.Fprintf(os.Stderr, "\n  %sversion%s %s   %slisten%s %s\n\n",
			dim, reset, ver, dim, reset, addr)
	} else {
		fmt.Fprintf(os.Stderr, "\n  version %s   listen %s\n\n", ver, addr)
	}
}
