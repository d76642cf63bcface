// Package sv parses the header of a SystemVerilog top-level module:
// preprocessing, then module name, parameters, and ports (spec §4.1-4.2).
package sv

// Direction is a port's signal direction.
type Direction int

const (
	DirUnknown Direction = iota
	DirInput
	DirOutput
	DirInout
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	default:
		return "unknown"
	}
}

// Endianness records whether a packed range was written high:low ([7:0],
// big-endian/descending) or low:high ([0:7], little-endian/ascending).
type Endianness int

const (
	EndianBig    Endianness = iota // [high:low]
	EndianLittle                   // [low:high]
)

// Range is a textual bit-range, kept as the raw bound expressions since
// they may be parametric (e.g. DATA_WIDTH-1:0).
type Range struct {
	Left       string
	Right      string
	Endianness Endianness
}

// Width returns the range's bit count (high - low + 1) when both bounds are
// integer literals, which is the only case the spec allows width
// comparisons on; ok is false otherwise.
func (r *Range) Width() (int, bool) {
	if r == nil {
		return 0, false
	}
	l, lok := literalInt(r.Left)
	rt, rok := literalInt(r.Right)
	if !lok || !rok {
		return 0, false
	}
	hi, lo := l, rt
	if r.Endianness == EndianLittle {
		hi, lo = rt, l
	}
	if hi < lo {
		return 0, false
	}
	return hi - lo + 1, true
}

// Port is a single physical port of the module (spec §3).
type Port struct {
	Name        string
	Direction   Direction
	Signed      bool
	Packed      *Range  // nil if the port is a scalar (no [..] range)
	WidthExpr   string  // raw textual width, e.g. "DATA_WIDTH-1:0"; "" if scalar
	Unpacked    []Range // dimensions declared after the name, e.g. [0:3]
	IsInterface bool    // recognized "iface.modport name" port reference
	TypeToken   string  // interface name of an interface-reference port; net/data type tokens of other ports are skipped and not recorded
}

// Parameter is a single module parameter or localparam (spec §3).
type Parameter struct {
	Name         string
	TypeTag      string // raw captured type-spec tokens, uninterpreted
	DefaultValue string // raw textual expression
	IsLocal      bool   // true for `localparam`
}

// Module is the parser's output: one top-level module description.
type Module struct {
	Name       string
	Parameters []Parameter
	Ports      []Port
	SourceFile string
}

// ParamDefault returns the default value of the first parameter whose
// normalized name matches, and whether it was found.
func (m *Module) ParamDefault(name string) (string, bool) {
	target := normalizeIdent(name)
	for _, p := range m.Parameters {
		if normalizeIdent(p.Name) == target {
			return p.DefaultValue, true
		}
	}
	return "", false
}

// ParamInt returns the integer-literal default of a parameter, if the
// parameter exists and its default is a plain integer literal.
func (m *Module) ParamInt(name string) (int, bool) {
	v, ok := m.ParamDefault(name)
	if !ok {
		return 0, false
	}
	return literalInt(v)
}

func literalInt(s string) (int, bool) {
	s = trimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i = 1
	}
	if i >= len(s) {
		return 0, false
	}
	n := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func normalizeIdent(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// NormalizeIdent exposes the same normalization the matcher and grouper
// use, so all stages agree on what "the same name" means.
func NormalizeIdent(s string) string { return normalizeIdent(s) }
