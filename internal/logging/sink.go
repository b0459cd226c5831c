package logging

import (
	"io"
	"os"
)

// stderr is swapped in tests.
var stderr io.Writer = os.Stderr
