package build

import (
	"io"
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a component-tagged structured logger. Every long-lived
// piece of the wallet core (node client, downloader, sync coordinator,
// wallet container) takes one of these explicitly at construction time
// instead of reaching for a package-level global, so tests can substitute a
// discard logger or assert on captured output.
func NewLogger(out io.Writer, component string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log.WithField("component", component)
}

// DiscardLogger returns a logger that drops everything written to it. Used
// as the default when a caller does not care to observe wallet-core logs.
func DiscardLogger(component string) *logrus.Entry {
	return NewLogger(ioutil.Discard, component)
}
