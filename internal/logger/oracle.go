package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

// Oracle prompt/response dumping goes to a dedicated writer so that the
// multi-kilobyte prompts never drown the main log.

var (
	oracleMu  sync.Mutex
	oracleLog *log.Logger
)

func SetOracleWriter(w io.Writer) {
	oracleMu.Lock()
	defer oracleMu.Unlock()
	if w == nil {
		oracleLog = nil
		return
	}
	oracleLog = log.New(w, "", log.LstdFlags)
}

type oracleSection struct {
	Title string
	Body  string
}

func dumpOracle(kind, purpose string, sections []oracleSection) {
	oracleMu.Lock()
	l := oracleLog
	oracleMu.Unlock()
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[oracle][" + kind + "][" + purpose + "]\n")
	for _, sec := range sections {
		title := strings.TrimSpace(sec.Title)
		if title == "" {
			title = "CONTENT"
		}
		b.WriteString("--- " + title + " ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

func OracleRequest(purpose, system, user string, imageCount int) {
	sections := []oracleSection{
		{Title: "SYSTEM", Body: system},
		{Title: "USER", Body: user},
	}
	if imageCount > 0 {
		sections = append(sections, oracleSection{Title: "IMAGES", Body: strings.Repeat("<png> ", imageCount)})
	}
	dumpOracle("request", purpose, sections)
}

func OracleResponse(purpose, raw string) {
	dumpOracle("response", purpose, []oracleSection{{Title: "RAW", Body: raw}})
}
