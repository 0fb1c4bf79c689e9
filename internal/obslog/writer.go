package obslog

import (
	"io"
	"os"
)

func defaultWriter() io.Writer {
	return os.Stderr
}
