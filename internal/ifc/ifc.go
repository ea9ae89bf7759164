// Package ifc loads an IFC STEP physical file (ISO 10303-21) into a
// bim.Model. It is the graph-loading collaborator in front of the
// takeoff engine: a file that cannot be read or parsed aborts the
// whole run here, before any column is processed.
//
// Only the entity types the engine consumes are lifted; everything
// else in the exchange file is parsed generically and ignored.
package ifc

import (
	"fmt"
	"os"
	"strings"

	"github.com/lfarruda/ifctakeoff/internal/bim"
)

const stepMagic = "ISO-10303-21"

// Load reads and decodes one exchange file.
func Load(path string) (*bim.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}

// Decode parses STEP source text into a model.
func Decode(src string) (*bim.Model, error) {
	if !strings.HasPrefix(strings.TrimLeft(src, " \t\r\n"), stepMagic) {
		return nil, fmt.Errorf("not a STEP physical file: missing %s header", stepMagic)
	}

	dataStart := strings.Index(src, "DATA;")
	if dataStart < 0 {
		return nil, fmt.Errorf("no DATA section")
	}
	body := src[dataStart+len("DATA;"):]
	dataEnd := strings.Index(body, "ENDSEC;")
	if dataEnd < 0 {
		return nil, fmt.Errorf("unterminated DATA section")
	}

	entities, err := parseData(body[:dataEnd])
	if err != nil {
		return nil, fmt.Errorf("parsing data section: %w", err)
	}
	return liftModel(entities)
}
