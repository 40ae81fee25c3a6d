package automaton

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"
)

// Document is the YAML layout of a set of tables:
//
//	modes:
//	  - name: program
//	    initial: 0
//	    states:
//	      - edges:
//	          - {lo: a, hi: z, to: 1}
//	          - {char: "{", to: 2}
//	      - accept: 0
//	        edges:
//	          - {lo: a, hi: z, to: 1}
//	      - accept: 1
//
// Edge bounds are either single-character strings or byte values (0-255,
// decimal or 0x-prefixed). Keys other than the ones above are ignored, so a
// table document may carry additional per-mode sections.
type Document struct {
	Modes []TableDoc `yaml:"modes"`
}

// TableDoc is one table of a Document.
type TableDoc struct {
	Name    string     `yaml:"name"`
	Initial int        `yaml:"initial"`
	States  []StateDoc `yaml:"states"`
}

// StateDoc is one state of a TableDoc.
type StateDoc struct {
	Edges  []EdgeDoc `yaml:"edges"`
	Accept *int      `yaml:"accept"`
	Mark   int       `yaml:"mark"`
	Rewind int       `yaml:"rewind"`
}

// EdgeDoc is one edge of a StateDoc. Char is shorthand for lo == hi.
type EdgeDoc struct {
	Char *Bound `yaml:"char"`
	Lo   *Bound `yaml:"lo"`
	Hi   *Bound `yaml:"hi"`
	To   int    `yaml:"to"`
}

// Bound is a byte written either as a one-character string or as a number.
type Bound byte

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Bound) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("automaton: line %d: edge bound must be a scalar", value.Line)
	}
	switch value.Tag {
	case "!!int":
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		v, err := safecast.Conv[byte](n)
		if err != nil {
			return fmt.Errorf("automaton: line %d: edge bound %d: %w", value.Line, n, err)
		}
		*b = Bound(v)
		return nil
	case "!!str":
		if len(value.Value) != 1 {
			return fmt.Errorf("automaton: line %d: edge bound %q must be a single byte", value.Line, value.Value)
		}
		*b = Bound(value.Value[0])
		return nil
	}
	return fmt.Errorf("automaton: line %d: unsupported edge bound %q", value.Line, value.Value)
}

// LoadYAML decodes and validates every table of a YAML document.
func LoadYAML(data []byte) ([]*Table, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("automaton: %w", err)
	}
	return doc.Tables()
}

// ReadYAML is like LoadYAML but reads the document from r.
func ReadYAML(r io.Reader) ([]*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("automaton: %w", err)
	}
	return LoadYAML(data)
}

// Tables converts the document into validated tables.
func (d *Document) Tables() ([]*Table, error) {
	if len(d.Modes) == 0 {
		return nil, errors.New("automaton: document declares no modes")
	}
	tables := make([]*Table, 0, len(d.Modes))
	for _, m := range d.Modes {
		t, err := m.Table()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Table converts one table section into a validated Table. Edges are kept in
// document order and must already be sorted.
func (m *TableDoc) Table() (*Table, error) {
	t := &Table{
		Name:    m.Name,
		Initial: StateID(m.Initial),
		States:  make([]State, len(m.States)),
	}
	for i, sd := range m.States {
		st := State{Mark: sd.Mark, Rewind: sd.Rewind}
		if sd.Accept != nil {
			st.Accept = PatternID(*sd.Accept)
			st.HasAccept = true
		}
		for j, ed := range sd.Edges {
			e, err := ed.edge()
			if err != nil {
				return nil, fmt.Errorf("automaton: table %q: state %d edge %d: %w", m.Name, i, j, err)
			}
			st.Edges = append(st.Edges, e)
		}
		t.States[i] = st
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (ed EdgeDoc) edge() (Edge, error) {
	e := Edge{Next: StateID(ed.To)}
	switch {
	case ed.Char != nil:
		if ed.Lo != nil || ed.Hi != nil {
			return e, errors.New("char cannot be combined with lo/hi")
		}
		e.Lo, e.Hi = byte(*ed.Char), byte(*ed.Char)
	case ed.Lo != nil && ed.Hi != nil:
		e.Lo, e.Hi = byte(*ed.Lo), byte(*ed.Hi)
	default:
		return e, errors.New("edge needs either char or both lo and hi")
	}
	return e, nil
}
