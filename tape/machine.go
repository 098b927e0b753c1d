package tape

// Machine is the mutable execution state: the tape and the pointer into it.
type Machine struct {
	Tape    []byte
	Pointer int
	// Steps counts instructions and loop checks performed so far.
	Steps int
}

// NewMachine returns a machine with size zeroed cells and the pointer on the
// first cell.
func NewMachine(size int) *Machine {
	return &Machine{Tape: make([]byte, size)}
}

// Cell returns the value under the pointer.
func (m *Machine) Cell() byte {
	return m.Tape[m.Pointer]
}

// Window returns the cells within radius of the pointer along with the index
// of the first returned cell.
func (m *Machine) Window(radius int) ([]byte, int) {
	start := max(m.Pointer-radius, 0)
	end := min(m.Pointer+radius+1, len(m.Tape))
	return m.Tape[start:end], start
}
